// Package queryir is the query tree produced by the finder compiler.
//
// A Query is a compiled plan for one repository method: the root entity,
// an optional Criterion tree, ordering, projection directives and the
// declared result type. Execution is left to whoever consumes the plan;
// nothing in this package talks to storage.
//
// SEALED INTERFACES:
//
// Criterion is a sealed interface using the marker method pattern. Only
// types in this package implement it, so consumers can switch
// exhaustively:
//
//	switch c := crit.(type) {
//	case Restriction:
//	    // leaf: property <op> params
//	case Conjunction:
//	case Disjunction:
//	case Negation:
//	case AssociationQuery:
//	    // sub-criterion scoped to one association hop
//	}
//
// CANONICAL FORM:
//
// ToMap renders a Query as the map form accepted by ir.MarshalCanonical.
// The same map backs MarshalJSON, golden files and plan hashes, so two
// structurally equal plans always serialize identically.
//
// INVARIANTS (checked by Validate):
//   - every Restriction has exactly Operator.Arity() bound parameters
//   - every property referenced resolves on the root entity, directly or
//     through the AssociationQuery scopes above it
//   - every ordering property exists on the root entity
package queryir
