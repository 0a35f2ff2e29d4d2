package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/finder/internal/ir"
)

// CompileRepository parses a CUE value into a Repository.
//
//	repository: PersonRepository: {
//		entity: "Person"
//		methods: findByLastName: {params: ["lastName"], returns: "[]Person"}
//	}
//
// params and returns are optional. Methods keep declaration order.
func CompileRepository(v cue.Value) (*ir.Repository, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	repo := &ir.Repository{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		repo.Name = labels[len(labels)-1].String()
	}

	entity, ok, err := lookupString(v, "entity")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &CompileError{
			Field:   "entity",
			Message: "entity is required",
			Pos:     v.Pos(),
		}
	}
	repo.Entity = entity

	methodsVal := v.LookupPath(cue.ParsePath("methods"))
	if !methodsVal.Exists() {
		return repo, nil
	}

	iter, err := methodsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		method, err := parseMethod(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		repo.Methods = append(repo.Methods, method)
	}

	return repo, nil
}

func parseMethod(name string, v cue.Value) (ir.MethodSignature, error) {
	sig := ir.MethodSignature{Name: name}

	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if paramsVal.Exists() {
		list, err := paramsVal.List()
		if err != nil {
			return sig, &CompileError{
				Field:   fmt.Sprintf("methods.%s.params", name),
				Message: "params must be a list of names",
				Pos:     paramsVal.Pos(),
			}
		}
		for list.Next() {
			p, err := list.Value().String()
			if err != nil {
				return sig, formatCUEError(err)
			}
			sig.Parameters = append(sig.Parameters, p)
		}
	}

	returns, _, err := lookupString(v, "returns")
	if err != nil {
		return sig, err
	}
	sig.ReturnType = returns

	return sig, nil
}
