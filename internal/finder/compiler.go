package finder

import (
	"fmt"

	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/queryir"
)

// Compiler turns method signatures into query plans.
//
// A Compiler holds only immutable configuration; Compile may be called
// from many goroutines at once.
type Compiler struct {
	registry   *Registry
	strategies []*Strategy
	strict     bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithStrictPaths makes unresolvable property references fatal
// (ReasonUnresolvableProperty) instead of falling back to a direct
// reference by name.
func WithStrictPaths(strict bool) Option {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// WithStrategies replaces the strategies tried, in the given order.
func WithStrategies(strategies ...*Strategy) Option {
	return func(c *Compiler) {
		c.strategies = strategies
	}
}

// WithRegistry replaces the keyword registry.
func WithRegistry(r *Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// New creates a Compiler with the default registry and strategies.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		registry:   Default(),
		strategies: DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strategies returns the strategies in the order they are tried.
func (c *Compiler) Strategies() []*Strategy {
	return append([]*Strategy(nil), c.strategies...)
}

// Match returns the first strategy that accepts the method name.
func (c *Compiler) Match(method string) (*Strategy, Match, bool) {
	for _, s := range c.strategies {
		if m, ok := s.Match(method); ok {
			return s, m, true
		}
	}
	return nil, Match{}, false
}

// Compile compiles one method against its entity.
//
// A name no strategy accepts returns an error matching ErrNoMatch. Every
// other error is a *CompileError for this method only.
func (c *Compiler) Compile(method ir.MethodSignature, entity *ir.EntityMetadata) (*queryir.Query, error) {
	if entity == nil {
		return nil, fmt.Errorf("compile %s: nil entity", method.Name)
	}

	strategy, match, ok := c.Match(method.Name)
	if !ok {
		return nil, newError(ReasonNoMatch, method.Name, "method name does not match any finder strategy")
	}
	return c.compileMatch(strategy, match, method, entity)
}

// CompileWith compiles a method using one specific strategy.
func (c *Compiler) CompileWith(s *Strategy, method ir.MethodSignature, entity *ir.EntityMetadata) (*queryir.Query, error) {
	if entity == nil {
		return nil, fmt.Errorf("compile %s: nil entity", method.Name)
	}
	match, ok := s.Match(method.Name)
	if !ok {
		return nil, newError(ReasonNoMatch, method.Name, "method name does not match %s strategy", s.Name)
	}
	return c.compileMatch(s, match, method, entity)
}

func (c *Compiler) compileMatch(s *Strategy, match Match, method ir.MethodSignature, entity *ir.EntityMetadata) (*queryir.Query, error) {
	params := method.Parameters
	count := method.ParameterCount()

	residual, orders := ExtractOrder(match.Clauses, entity)

	operator := OperatorAnd
	var clauses []string
	if op, found := findOperator(residual); found {
		operator = op
		clauses = splitOperator(residual, op)
	} else if residual != "" {
		clauses = []string{residual}
	}

	// Bind parameters greedily, left to right.
	expressions := make([]Expression, 0, len(clauses))
	cursor := 0
	for _, clause := range clauses {
		expr, err := c.BuildExpression(method.Name, clause, entity)
		if err != nil {
			return nil, err
		}
		required := expr.RequiredArguments()
		if cursor+required > count {
			return nil, newError(ReasonInsufficientArguments, method.Name,
				"insufficient arguments to method: clause %q needs %d, %d of %d remain",
				clause, required, count-cursor, count)
		}
		expressions = append(expressions, expr.Bind(params[cursor:cursor+required]))
		cursor += required
	}

	projections, result := c.projections(s, match.Projection, entity)

	query := &queryir.Query{
		Entity:      entity.Name,
		Operation:   s.Operation,
		Criterion:   combine(operator, expressions),
		Orders:      orders,
		Projections: projections,
		Result:      result,
	}

	if bound := len(query.Parameters()); bound > count {
		return nil, newError(ReasonInsufficientArguments, method.Name,
			"insufficient arguments to method: %d bound, %d declared", bound, count)
	}

	for _, o := range query.Orders {
		if _, ok := entity.PropertyByName(o.Property); !ok {
			return nil, newError(ReasonUnresolvableOrderProperty, method.Name,
				"cannot order by non-existent property: %q", o.Property)
		}
	}

	return query, nil
}

// combine assembles the criterion tree. One expression stays a leaf;
// several become a Disjunction for Or and a Conjunction otherwise.
func combine(operator string, expressions []Expression) queryir.Criterion {
	switch len(expressions) {
	case 0:
		return nil
	case 1:
		return expressions[0].Criterion()
	}

	criteria := make([]queryir.Criterion, len(expressions))
	for i, e := range expressions {
		criteria[i] = e.Criterion()
	}
	if operator == OperatorOr {
		return queryir.Disjunction{Criteria: criteria}
	}
	return queryir.Conjunction{Criteria: criteria}
}

// projections resolves the projection sequence for the strategy and the
// result type that follows from it.
func (c *Compiler) projections(s *Strategy, sequence string, entity *ir.EntityMetadata) ([]queryir.Projection, queryir.ResultType) {
	entityResult := queryir.ResultType{Kind: queryir.ResultEntity, Type: entity.Name}

	switch s.Operation {
	case queryir.OperationCount:
		count := queryir.Projection{Kind: queryir.ProjectCount}
		if ps := ExtractProjections(sequence, entity); len(ps) == 1 {
			switch ps[0].Kind {
			case queryir.ProjectDistinct, queryir.ProjectCountDistinct:
				count = queryir.Projection{Kind: queryir.ProjectCountDistinct, Property: ps[0].Property}
			}
		}
		return []queryir.Projection{count}, queryir.ResultType{Kind: queryir.ResultNumber}

	case queryir.OperationExists:
		return nil, queryir.ResultType{Kind: queryir.ResultBoolean}

	case queryir.OperationDelete:
		return nil, queryir.ResultType{Kind: queryir.ResultNumber}
	}

	projections := ExtractProjections(sequence, entity)
	if len(projections) == 1 {
		if r, ok := projectionResult(projections[0], entity); ok {
			return projections, r
		}
	}
	return projections, entityResult
}
