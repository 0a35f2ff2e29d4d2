package finder

import (
	"slices"
	"strings"

	"github.com/roach88/finder/internal/queryir"
)

// Keyword is a grammar keyword that selects a criterion kind.
type Keyword struct {
	Name     string // as written in method names, e.g. "GreaterThanEquals"
	Operator queryir.Operator
	Arity    int // parameters consumed
}

// Registry is the immutable keyword table. It is built once by
// NewRegistry and only read afterwards.
type Registry struct {
	keywords []Keyword // longest name first
	byName   map[string]Keyword
}

// keywordOrder is the declaration order of grammar keywords.
var keywordOrder = []struct {
	name string
	op   queryir.Operator
}{
	{"Equal", queryir.OpEqual},
	{"NotEqual", queryir.OpNotEqual},
	{"NotInList", queryir.OpNotInList},
	{"InList", queryir.OpInList},
	{"InRange", queryir.OpInRange},
	{"Between", queryir.OpBetween},
	{"Like", queryir.OpLike},
	{"Ilike", queryir.OpIlike},
	{"Rlike", queryir.OpRlike},
	{"GreaterThanEquals", queryir.OpGreaterThanEquals},
	{"LessThanEquals", queryir.OpLessThanEquals},
	{"GreaterThan", queryir.OpGreaterThan},
	{"LessThan", queryir.OpLessThan},
	{"IsNull", queryir.OpIsNull},
	{"IsNotNull", queryir.OpIsNotNull},
	{"IsEmpty", queryir.OpIsEmpty},
	{"IsNotEmpty", queryir.OpIsNotEmpty},
}

// NewRegistry builds the keyword table.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Keyword, len(keywordOrder))}
	for _, k := range keywordOrder {
		kw := Keyword{Name: k.name, Operator: k.op, Arity: k.op.Arity()}
		r.keywords = append(r.keywords, kw)
		r.byName[kw.Name] = kw
	}
	// Longest first so NotEqual wins over Equal and GreaterThanEquals
	// over GreaterThan. Ties keep declaration order.
	slices.SortStableFunc(r.keywords, func(a, b Keyword) int {
		return len(b.Name) - len(a.Name)
	})
	return r
}

// defaultRegistry is shared by every Compiler.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Lookup returns the keyword with the exact name.
func (r *Registry) Lookup(name string) (Keyword, bool) {
	kw, ok := r.byName[name]
	return kw, ok
}

// Equal is the keyword used when a clause names no keyword.
func (r *Registry) Equal() Keyword {
	return r.byName["Equal"]
}

// Match finds the longest keyword that ends the clause and returns it with
// the remaining text. A clause without a keyword suffix yields Equal and
// the clause unchanged.
func (r *Registry) Match(clause string) (Keyword, string) {
	for _, kw := range r.keywords {
		if strings.HasSuffix(clause, kw.Name) {
			return kw, strings.TrimSuffix(clause, kw.Name)
		}
	}
	return r.Equal(), clause
}

// Keywords returns the keywords in declaration order.
func (r *Registry) Keywords() []Keyword {
	out := make([]Keyword, 0, len(keywordOrder))
	for _, k := range keywordOrder {
		out = append(out, r.byName[k.name])
	}
	return out
}
