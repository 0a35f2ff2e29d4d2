package finder

import (
	"strings"

	"github.com/roach88/finder/internal/queryir"
)

var numericTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true,
}

// returnShape is a declared return type with its container stripped.
type returnShape struct {
	elem string
	many bool // slice, iterator or channel
}

func parseReturnType(declared string) returnShape {
	t := strings.Join(strings.Fields(declared), " ")
	for {
		switch {
		case strings.HasPrefix(t, "*"):
			t = t[1:]
		case strings.HasPrefix(t, "[]"):
			return returnShape{elem: strings.TrimPrefix(t[2:], "*"), many: true}
		case strings.HasPrefix(t, "<-chan "):
			return returnShape{elem: strings.TrimPrefix(t[len("<-chan "):], "*"), many: true}
		case strings.HasPrefix(t, "chan "):
			return returnShape{elem: strings.TrimPrefix(t[len("chan "):], "*"), many: true}
		case strings.HasPrefix(t, "iter.Seq[") && strings.HasSuffix(t, "]"):
			inner := t[len("iter.Seq[") : len(t)-1]
			return returnShape{elem: strings.TrimPrefix(inner, "*"), many: true}
		default:
			return returnShape{elem: t}
		}
	}
}

// IsNumeric reports whether typ is a Go numeric type name.
func IsNumeric(typ string) bool {
	return numericTypes[typ]
}

// CheckReturnType verifies that a declared return type can hold the
// query's result. An empty declared type is always accepted.
//
//	entity<Person>   Person, *Person, []Person, []*Person, iter.Seq[Person], chan Person
//	number           any numeric type, optionally a pointer
//	boolean          bool, *bool
//	property<T>      T or a container of T; numeric T accepts any numeric type
//
// A mismatch returns a *CompileError with ReasonUnsupportedReturnType and
// an empty Method; callers fill it in.
func CheckReturnType(q *queryir.Query, declared string) error {
	if strings.TrimSpace(declared) == "" {
		return nil
	}

	shape := parseReturnType(declared)
	if supportsResult(q.Result, shape) {
		return nil
	}
	return &CompileError{
		Reason:  ReasonUnsupportedReturnType,
		Message: "unsupported return type " + declared + " for " + q.Result.String() + " result",
	}
}

func supportsResult(r queryir.ResultType, shape returnShape) bool {
	switch r.Kind {
	case queryir.ResultEntity:
		return shape.elem == r.Type
	case queryir.ResultNumber:
		return !shape.many && IsNumeric(shape.elem)
	case queryir.ResultBoolean:
		return !shape.many && shape.elem == "bool"
	case queryir.ResultProperty:
		if shape.elem == r.Type {
			return true
		}
		return IsNumeric(r.Type) && IsNumeric(shape.elem)
	default:
		return false
	}
}
