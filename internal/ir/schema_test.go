package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(
		NewEntity("Person",
			Scalar("lastName", "string"),
			Scalar("age", "int"),
			AssociationTo("address", "Address"),
			CollectionOf("books", "Book"),
			AssociationTo("employer", "Company"), // never declared
		),
		NewEntity("Address",
			Scalar("street", "string"),
			AssociationTo("city", "City"),
		),
		NewEntity("City",
			Scalar("name", "string"),
			Scalar("zipCode", "string"),
		),
		NewEntity("Book",
			Scalar("title", "string"),
		),
	)
	require.NoError(t, err)
	return s
}

func TestNewSchemaLinksAssociations(t *testing.T) {
	s := testSchema(t)

	person, ok := s.Entity("Person")
	require.True(t, ok)

	address, ok := person.PropertyByName("address")
	require.True(t, ok)
	require.True(t, address.IsAssociation())
	require.NotNil(t, address.Association.AssociatedEntity())
	assert.Equal(t, "Address", address.Association.AssociatedEntity().Name)

	employer, ok := person.PropertyByName("employer")
	require.True(t, ok)
	assert.Nil(t, employer.Association.AssociatedEntity(), "undeclared target is absent")
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	_, err := NewSchema(NewEntity("Person"), NewEntity("Person"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate entity")
}

func TestSchemaEntitiesDeclarationOrder(t *testing.T) {
	s := testSchema(t)

	var names []string
	for _, e := range s.Entities() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Person", "Address", "City", "Book"}, names)
}

func TestPropertyByNameLiteralEntity(t *testing.T) {
	e := &EntityMetadata{Name: "Tag", Properties: []PropertyMetadata{Scalar("label", "string")}}

	p, ok := e.PropertyByName("label")
	require.True(t, ok)
	assert.Equal(t, "string", p.Type)

	_, ok = e.PropertyByName("missing")
	assert.False(t, ok)
}

func TestPath(t *testing.T) {
	s := testSchema(t)
	person, _ := s.Entity("Person")

	tests := []struct {
		name string
		ref  string
		want []string
		ok   bool
	}{
		{"camel case two hops", "addressCityName", []string{"address", "city", "name"}, true},
		{"camel case one hop", "addressStreet", []string{"address", "street"}, true},
		{"underscore separator", "address_cityName", []string{"address", "city", "name"}, true},
		{"dotted", "address.city.zipCode", []string{"address", "city", "zipCode"}, true},
		{"capitalized after separator", "address_CityZipCode", []string{"address", "city", "zipCode"}, true},
		{"to-many association", "booksTitle", []string{"books", "title"}, true},
		{"direct scalar", "age", []string{"age"}, true},
		{"ends in association", "addressCity", nil, false},
		{"unknown", "fooBar", nil, false},
		{"unresolved target", "employerName", nil, false},
		{"empty", "", nil, false},
		{"trailing separator", "address_", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := person.Path(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMethodSignatureParameterCount(t *testing.T) {
	sig := NewSignature("findByNameAndAge", "name", "age")
	assert.Equal(t, 2, sig.ParameterCount())
	assert.Equal(t, 0, NewSignature("findAll").ParameterCount())
}
