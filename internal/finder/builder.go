package finder

import (
	"strings"

	"github.com/roach88/finder/internal/ir"
)

// negationSuffix marks a negated criterion when it trails the property
// name: "StatusNot" is NOT (status = ?).
const negationSuffix = "Not"

// BuildExpression turns one clause (e.g. "AgeGreaterThan",
// "Address_CityNameLike", "StatusNot") into an unbound Expression.
//
// The property is resolved directly first, then as an association path.
// When neither resolves, the decapitalized name is used as-is and the
// Equal-or-keyword criterion still gets built; strict mode turns that case
// into ReasonUnresolvableProperty instead.
func (c *Compiler) BuildExpression(method, clause string, entity *ir.EntityMetadata) (Expression, error) {
	kw, rest := c.registry.Match(clause)

	negated := false
	if strings.HasSuffix(rest, negationSuffix) {
		rest = strings.TrimSuffix(rest, negationSuffix)
		negated = true
	}

	if rest == "" {
		return nil, newError(ReasonEmptyPropertyName, method,
			"no property name specified in clause %q", clause)
	}

	name := ir.Decapitalize(rest)
	if _, ok := entity.PropertyByName(name); ok {
		return leaf(kw, name, negated), nil
	}

	if path, ok := entity.Path(name); ok && len(path) > 1 {
		if expr, ok := scopedExpression(kw, path, negated, entity); ok {
			return expr, nil
		}
	}

	if c.strict {
		return nil, newError(ReasonUnresolvableProperty, method,
			"cannot resolve property %q on %s", name, entity.Name)
	}
	return leaf(kw, name, negated), nil
}

func leaf(kw Keyword, property string, negated bool) Expression {
	var expr Expression = NewComparison(kw, property)
	if negated {
		expr = Negated{Inner: expr}
	}
	return expr
}

// scopedExpression walks path from entity, wrapping the leaf comparison in
// one AssociationScoped per hop. The negation stays on the leaf, inside
// the association scopes. It reports false when a hop is missing, an
// association target is undeclared or the path ends on an association.
func scopedExpression(kw Keyword, path []string, negated bool, entity *ir.EntityMetadata) (Expression, bool) {
	type hop struct {
		association string
		entity      string
	}

	var hops []hop
	current := entity
	for i, token := range path {
		p, ok := current.PropertyByName(token)
		if !ok {
			return nil, false
		}
		if !p.IsAssociation() {
			if i != len(path)-1 {
				return nil, false
			}
			break
		}
		target := p.Association.AssociatedEntity()
		if target == nil || i == len(path)-1 {
			return nil, false
		}
		hops = append(hops, hop{association: token, entity: target.Name})
		current = target
	}
	if len(hops) == 0 {
		return nil, false
	}

	expr := leaf(kw, path[len(path)-1], negated)
	for i := len(hops) - 1; i >= 0; i-- {
		expr = AssociationScoped{Association: hops[i].association, Entity: hops[i].entity, Inner: expr}
	}
	return expr, true
}
