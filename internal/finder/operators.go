package finder

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Boolean operators in precedence order: the first one present in a
// clause sequence is the one used to split it.
const (
	OperatorAnd = "And"
	OperatorOr  = "Or"
)

var operators = []string{OperatorAnd, OperatorOr}

// findOperator returns the first operator that splits s.
func findOperator(s string) (string, bool) {
	for _, op := range operators {
		if len(operatorCuts(s, op)) > 0 {
			return op, true
		}
	}
	return "", false
}

// splitOperator cuts s at every occurrence of op that has at least one
// character before it and an upper-case letter right after it.
// "NameAndAge" splits into [Name Age]; "BrandName" and "AndroidId" do not
// split. Adjacent operators yield empty segments.
func splitOperator(s, op string) []string {
	cuts := operatorCuts(s, op)
	if len(cuts) == 0 {
		return []string{s}
	}

	segments := make([]string, 0, len(cuts)+1)
	start := 0
	for _, i := range cuts {
		segments = append(segments, s[start:i])
		start = i + len(op)
	}
	return append(segments, s[start:])
}

func operatorCuts(s, op string) []int {
	var cuts []int
	for i := 1; i+len(op) < len(s); i++ {
		if !strings.HasPrefix(s[i:], op) {
			continue
		}
		if len(cuts) > 0 && i < cuts[len(cuts)-1]+len(op) {
			continue
		}
		if startsUpper(s[i+len(op):]) {
			cuts = append(cuts, i)
		}
	}
	return cuts
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
