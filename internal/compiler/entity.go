package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/finder/internal/ir"
)

// CompileEntity parses a CUE value into EntityMetadata.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value is the entity struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`entity: Person: properties: { lastName: string }`)
//	e, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Person")))
//
// Property forms:
//
//	lastName: string                            scalar (string, int, bool, float)
//	born:     {type: "time.Time"}               scalar with an explicit Go type
//	tags:     {collection: "string"}            scalar collection
//	address:  {association: "Address"}          single-valued association
//	books:    {association: "Book", many: true} to-many association
//
// Association targets are resolved later by ir.NewSchema.
func CompileEntity(v cue.Value) (*ir.EntityMetadata, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var name string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}

	propsVal := v.LookupPath(cue.ParsePath("properties"))
	if !propsVal.Exists() {
		return nil, &CompileError{
			Field:   "properties",
			Message: "properties are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := propsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var props []ir.PropertyMetadata
	for iter.Next() {
		prop, err := parseProperty(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}

	return ir.NewEntity(name, props...), nil
}

// parseProperty reads one property declaration.
func parseProperty(name string, v cue.Value) (ir.PropertyMetadata, error) {
	if v.IncompleteKind() != cue.StructKind {
		typ, err := extractTypeName(v)
		if err != nil {
			return ir.PropertyMetadata{}, err
		}
		return ir.Scalar(name, typ), nil
	}

	if target, ok, err := lookupString(v, "association"); err != nil {
		return ir.PropertyMetadata{}, err
	} else if ok {
		many := false
		if manyVal := v.LookupPath(cue.ParsePath("many")); manyVal.Exists() {
			if many, err = manyVal.Bool(); err != nil {
				return ir.PropertyMetadata{}, formatCUEError(err)
			}
		}
		if many {
			return ir.CollectionOf(name, target), nil
		}
		return ir.AssociationTo(name, target), nil
	}

	if elem, ok, err := lookupString(v, "collection"); err != nil {
		return ir.PropertyMetadata{}, err
	} else if ok {
		return ir.ScalarCollection(name, elem), nil
	}

	if typ, ok, err := lookupString(v, "type"); err != nil {
		return ir.PropertyMetadata{}, err
	} else if ok {
		return ir.Scalar(name, typ), nil
	}

	return ir.PropertyMetadata{}, &CompileError{
		Field:   fmt.Sprintf("properties.%s", name),
		Message: "property struct must set association, collection or type",
		Pos:     v.Pos(),
	}
}

// lookupString returns the concrete string at field, if the field exists.
func lookupString(v cue.Value, field string) (string, bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", false, nil
	}
	s, err := fv.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

// extractTypeName converts a CUE type to a Go type name.
func extractTypeName(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return "string", nil
	case cue.IntKind:
		return "int", nil
	case cue.BoolKind:
		return "bool", nil
	case cue.FloatKind, cue.NumberKind:
		return "float64", nil
	case cue.BytesKind:
		return "[]byte", nil
	default:
		return "", &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}
