package ir

// EntityMetadata describes a persistent entity: a name and an ordered set
// of typed properties. Lookups by name go through PropertyByName.
type EntityMetadata struct {
	Name       string             `json:"name"`
	Properties []PropertyMetadata `json:"properties"`

	index map[string]int
}

// PropertyMetadata describes one property of an entity.
// A property is either a scalar (Association == nil) or an association
// linking to another entity.
type PropertyMetadata struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`                  // "string", "int", ... or the target entity name
	Collection  bool         `json:"collection,omitempty"`  // to-many association or scalar collection
	Association *Association `json:"association,omitempty"` // nil for scalars
}

// Association links a property to another entity by name.
// The target is resolved when the owning Schema is built.
type Association struct {
	Target string `json:"target"`

	entity *EntityMetadata
}

// Repository groups the finder methods declared against one entity.
type Repository struct {
	Name    string            `json:"name"`
	Entity  string            `json:"entity"`
	Methods []MethodSignature `json:"methods"`
}

// MethodSignature is the part of a declared method the compiler needs:
// the name, the ordered parameter names and, optionally, the declared
// return type. Immutable once captured.
type MethodSignature struct {
	Name       string   `json:"name"`
	Parameters []string `json:"parameters"`
	ReturnType string   `json:"return_type,omitempty"`
}

// NewEntity creates an entity with the given properties in declaration order.
func NewEntity(name string, props ...PropertyMetadata) *EntityMetadata {
	e := &EntityMetadata{Name: name, Properties: props}
	e.reindex()
	return e
}

// Scalar creates a scalar property.
func Scalar(name, typ string) PropertyMetadata {
	return PropertyMetadata{Name: name, Type: typ}
}

// ScalarCollection creates a collection of scalar values (e.g. tags []string).
func ScalarCollection(name, typ string) PropertyMetadata {
	return PropertyMetadata{Name: name, Type: typ, Collection: true}
}

// AssociationTo creates a single-valued association to target.
func AssociationTo(name, target string) PropertyMetadata {
	return PropertyMetadata{Name: name, Type: target, Association: &Association{Target: target}}
}

// CollectionOf creates a to-many association to target.
func CollectionOf(name, target string) PropertyMetadata {
	return PropertyMetadata{Name: name, Type: target, Collection: true, Association: &Association{Target: target}}
}

// NewSignature creates a MethodSignature.
func NewSignature(name string, params ...string) MethodSignature {
	return MethodSignature{Name: name, Parameters: params}
}

// ParameterCount returns the number of declared parameters.
func (m MethodSignature) ParameterCount() int {
	return len(m.Parameters)
}

// IsAssociation reports whether the property links to another entity.
func (p PropertyMetadata) IsAssociation() bool {
	return p.Association != nil
}

// AssociatedEntity returns the linked entity, or nil when the target was
// never declared in the Schema.
func (a *Association) AssociatedEntity() *EntityMetadata {
	if a == nil {
		return nil
	}
	return a.entity
}

// PropertyByName returns the named property.
func (e *EntityMetadata) PropertyByName(name string) (*PropertyMetadata, bool) {
	if e == nil {
		return nil, false
	}
	if e.index == nil {
		// Literal entities that never went through NewEntity or NewSchema.
		for i := range e.Properties {
			if e.Properties[i].Name == name {
				return &e.Properties[i], true
			}
		}
		return nil, false
	}
	i, ok := e.index[name]
	if !ok {
		return nil, false
	}
	return &e.Properties[i], true
}

func (e *EntityMetadata) reindex() {
	e.index = make(map[string]int, len(e.Properties))
	for i, p := range e.Properties {
		e.index[p.Name] = i
	}
}
