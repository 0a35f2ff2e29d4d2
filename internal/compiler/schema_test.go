package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSpec = `
entity: Person: properties: {
	lastName: string
	age:      int
	address:  {association: "Address"}
}
entity: Address: properties: {
	street: string
	city:   string
}
repository: PersonRepository: {
	entity: "Person"
	methods: {
		findByLastName: {params: ["lastName"], returns: "[]Person"}
		findByAddressCity: {params: ["city"]}
	}
}
`

func TestCompileSpec(t *testing.T) {
	v := cuecontext.New().CompileString(personSpec)
	require.NoError(t, v.Err())

	spec, err := CompileSpec(v)
	require.NoError(t, err)

	require.Len(t, spec.Entities, 2)
	assert.Equal(t, "Person", spec.Entities[0].Name)
	assert.Equal(t, "Address", spec.Entities[1].Name)
	require.Len(t, spec.Repositories, 1)
	assert.Len(t, spec.Repositories[0].Methods, 2)

	schema, err := spec.Schema()
	require.NoError(t, err)

	person, ok := schema.Entity("Person")
	require.True(t, ok)
	path, ok := person.Path("addressCity")
	require.True(t, ok)
	assert.Equal(t, []string{"address", "city"}, path)

	assert.Empty(t, ValidateSpec(spec))
}

func TestCompileSpecPropagatesEntityError(t *testing.T) {
	v := cuecontext.New().CompileString(`entity: Broken: {}`)
	require.NoError(t, v.Err())

	_, err := CompileSpec(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity.Broken")
}

func TestCompileSpecEmpty(t *testing.T) {
	v := cuecontext.New().CompileString(`other: 1`)
	spec, err := CompileSpec(v)
	require.NoError(t, err)
	assert.Empty(t, spec.Entities)
	assert.Empty(t, spec.Repositories)
}
