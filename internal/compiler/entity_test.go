package compiler

import (
	"errors"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finder/internal/ir"
)

func TestCompileEntityBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		entity: Person: properties: {
			lastName: string
			age:      int
			active:   bool
			score:    float
			born:     {type: "time.Time"}
			tags:     {collection: "string"}
			address:  {association: "Address"}
			books:    {association: "Book", many: true}
		}
	`)
	require.NoError(t, v.Err())

	e, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Person")))
	require.NoError(t, err)

	assert.Equal(t, "Person", e.Name)
	assert.Equal(t, []ir.PropertyMetadata{
		ir.Scalar("lastName", "string"),
		ir.Scalar("age", "int"),
		ir.Scalar("active", "bool"),
		ir.Scalar("score", "float64"),
		ir.Scalar("born", "time.Time"),
		ir.ScalarCollection("tags", "string"),
		ir.AssociationTo("address", "Address"),
		ir.CollectionOf("books", "Book"),
	}, e.Properties)

	p, ok := e.PropertyByName("books")
	require.True(t, ok)
	assert.True(t, p.IsAssociation())
	assert.True(t, p.Collection)
}

func TestCompileEntityMissingProperties(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`entity: Empty: {}`)
	require.NoError(t, v.Err())

	_, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Empty")))
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "properties", ce.Field)
}

func TestCompileEntityBadPropertyStruct(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`entity: Bad: properties: odd: {colour: "red"}`)
	require.NoError(t, v.Err())

	_, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Bad")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "properties.odd")
	assert.Contains(t, err.Error(), "association, collection or type")
}

func TestCompileEntityUnsupportedKind(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`entity: Bad: properties: list: [...string]`)
	require.NoError(t, v.Err())

	_, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Bad")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type kind")
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "entity", Message: "entity is required"}
	assert.Equal(t, "entity: entity is required", err.Error())
}
