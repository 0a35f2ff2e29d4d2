package finder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/finder/internal/queryir"
)

// Strategy is one naming convention, such as findBy or countBy.
//
// A method matches when its name is <prefix><modifier>By<Clauses> with
// Clauses starting upper-case. The modifier is the projection sequence.
type Strategy struct {
	Name      string
	Operation queryir.Operation
	Prefixes  []string

	pattern *regexp.Regexp
}

// Match is the split of a method name by a Strategy.
type Match struct {
	Prefix     string // e.g. "find"
	Projection string // modifier between prefix and By, e.g. "Top3"
	Clauses    string // everything after By
}

// NewStrategy compiles the pattern for the given prefixes.
func NewStrategy(name string, op queryir.Operation, prefixes ...string) *Strategy {
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return &Strategy{
		Name:      name,
		Operation: op,
		Prefixes:  prefixes,
		pattern:   regexp.MustCompile(`^((` + strings.Join(quoted, "|") + `)(\w*?)By)([A-Z]\w*)$`),
	}
}

// Match splits method. ok is false when the strategy does not apply.
func (s *Strategy) Match(method string) (Match, bool) {
	m := s.pattern.FindStringSubmatch(method)
	if m == nil {
		return Match{}, false
	}
	return Match{Prefix: m[2], Projection: m[3], Clauses: m[4]}, true
}

// Built-in strategy names.
const (
	StrategyCount  = "count"
	StrategyExists = "exists"
	StrategyDelete = "delete"
	StrategyFind   = "find"
)

// CountBy matches countBy..., countDistinctBy...
func CountBy() *Strategy {
	return NewStrategy(StrategyCount, queryir.OperationCount, "count")
}

// ExistsBy matches existsBy...
func ExistsBy() *Strategy {
	return NewStrategy(StrategyExists, queryir.OperationExists, "exists")
}

// DeleteBy matches deleteBy..., removeBy...
func DeleteBy() *Strategy {
	return NewStrategy(StrategyDelete, queryir.OperationDelete, "delete", "remove")
}

// FindBy matches findBy..., getBy..., queryBy..., retrieveBy..., readBy...,
// searchBy... with any projection modifier.
func FindBy() *Strategy {
	return NewStrategy(StrategyFind, queryir.OperationFind, "find", "get", "query", "retrieve", "read", "search")
}

// DefaultStrategies returns the built-in strategies in priority order.
func DefaultStrategies() []*Strategy {
	return []*Strategy{CountBy(), ExistsBy(), DeleteBy(), FindBy()}
}

// StrategyNames lists the built-in strategy names in priority order.
func StrategyNames() []string {
	return []string{StrategyCount, StrategyExists, StrategyDelete, StrategyFind}
}

// StrategiesByName returns the named built-in strategies, keeping the
// built-in priority order regardless of the order of names.
func StrategiesByName(names ...string) ([]*Strategy, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []*Strategy
	for _, s := range DefaultStrategies() {
		if want[s.Name] {
			out = append(out, s)
			delete(want, s.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("unknown finder strategy %q", n)
		}
	}
	return out, nil
}
