package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/finder/internal/ir"
)

// Spec is everything declared in one CUE instance.
type Spec struct {
	Entities     []*ir.EntityMetadata
	Repositories []ir.Repository
}

// CompileSpec compiles every entity under "entity:" and every repository
// under "repository:", stopping at the first error.
func CompileSpec(v cue.Value) (*Spec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &Spec{}

	if err := eachField(v, "entity", func(label string, fv cue.Value) error {
		e, err := CompileEntity(fv)
		if err != nil {
			return fmt.Errorf("entity.%s: %w", label, err)
		}
		spec.Entities = append(spec.Entities, e)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachField(v, "repository", func(label string, fv cue.Value) error {
		r, err := CompileRepository(fv)
		if err != nil {
			return fmt.Errorf("repository.%s: %w", label, err)
		}
		spec.Repositories = append(spec.Repositories, *r)
		return nil
	}); err != nil {
		return nil, err
	}

	return spec, nil
}

// eachField calls fn for every field of the struct at path, if present.
func eachField(v cue.Value, path string, fn func(label string, fv cue.Value) error) error {
	sv := v.LookupPath(cue.ParsePath(path))
	if !sv.Exists() {
		return nil
	}
	iter, err := sv.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := fn(iter.Label(), iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

// Schema links the entities into an ir.Schema.
func (s *Spec) Schema() (*ir.Schema, error) {
	return ir.NewSchema(s.Entities...)
}
