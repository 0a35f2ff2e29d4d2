package ir

import (
	"fmt"
	"strings"
	"unicode"
)

// Schema is the lookup table of entity name to EntityMetadata.
//
// NewSchema links every association to its target entity. After that the
// Schema is never written again, so it is safe for concurrent readers.
type Schema struct {
	entities map[string]*EntityMetadata
	order    []string
}

// NewSchema indexes the entities and resolves association targets.
// Associations whose target is not part of the schema stay unresolved;
// AssociatedEntity reports them as absent.
func NewSchema(entities ...*EntityMetadata) (*Schema, error) {
	s := &Schema{entities: make(map[string]*EntityMetadata, len(entities))}
	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, dup := s.entities[e.Name]; dup {
			return nil, fmt.Errorf("duplicate entity %q", e.Name)
		}
		e.reindex()
		s.entities[e.Name] = e
		s.order = append(s.order, e.Name)
	}

	for _, e := range s.entities {
		for i := range e.Properties {
			assoc := e.Properties[i].Association
			if assoc == nil {
				continue
			}
			assoc.entity = s.entities[assoc.Target]
		}
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSchema(entities ...*EntityMetadata) *Schema {
	s, err := NewSchema(entities...)
	if err != nil {
		panic(err)
	}
	return s
}

// Entity returns the named entity.
func (s *Schema) Entity(name string) (*EntityMetadata, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.entities[name]
	return e, ok
}

// Entities returns all entities in declaration order.
func (s *Schema) Entities() []*EntityMetadata {
	out := make([]*EntityMetadata, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.entities[name])
	}
	return out
}

// Path resolves a property reference that traverses associations into its
// path segments, e.g. "addressCityName" -> [address city name].
//
// Explicit separators ("address_cityName", "address.cityName") split the
// reference; otherwise camel-case boundaries are tried left to right with
// backtracking. Only complete paths ending in a scalar property resolve.
func (e *EntityMetadata) Path(name string) ([]string, bool) {
	if e == nil || name == "" {
		return nil, false
	}

	if i := strings.IndexAny(name, "._"); i >= 0 {
		head, tail := name[:i], name[i+1:]
		target := e.associatedEntity(Decapitalize(head))
		if target == nil || tail == "" {
			return nil, false
		}
		rest, ok := target.Path(Decapitalize(tail))
		if !ok {
			return nil, false
		}
		return append([]string{Decapitalize(head)}, rest...), true
	}

	return e.camelPath(name)
}

func (e *EntityMetadata) camelPath(name string) ([]string, bool) {
	if p, ok := e.PropertyByName(name); ok && !p.IsAssociation() {
		return []string{name}, true
	}

	for i, r := range name {
		if i == 0 || !unicode.IsUpper(r) {
			continue
		}
		head := name[:i]
		target := e.associatedEntity(head)
		if target == nil {
			continue
		}
		if rest, ok := target.camelPath(Decapitalize(name[i:])); ok {
			return append([]string{head}, rest...), true
		}
	}

	return nil, false
}

// associatedEntity returns the resolved target of the named association.
func (e *EntityMetadata) associatedEntity(name string) *EntityMetadata {
	p, ok := e.PropertyByName(name)
	if !ok || !p.IsAssociation() {
		return nil
	}
	return p.Association.AssociatedEntity()
}
