package match

import (
	"testing"

	"github.com/siherrmann/mapper/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStructure() *model.OntologyStructure {
	return &model.OntologyStructure{
		Version: "v1",
		Classes: []model.OntologyClass{
			{IRI: "ex:Customer", Label: "Customer", LocalName: "Customer"},
			{IRI: "ex:Account", Label: "Account", LocalName: "Account"},
			{IRI: "ex:Currency", Label: "Currency", LocalName: "Currency"},
		},
		Properties: []model.OntologyProperty{
			{IRI: "ex:name", Label: "Name", LocalName: "name", Kind: model.PropertyKindData, Domain: "ex:Customer"},
			{IRI: "ex:email", Label: "Email Address", LocalName: "emailAddress", Kind: model.PropertyKindData, Domain: "ex:Customer"},
			{IRI: "ex:hasCustomer", Label: "Has Customer", LocalName: "hasCustomer", Kind: model.PropertyKindObject, Domain: "ex:Account", Range: "ex:Customer"},
			{IRI: "ex:ownedBy", Label: "Owned By", LocalName: "ownedBy", Kind: model.PropertyKindObject, Domain: "ex:Account", Range: "ex:Customer"},
			{IRI: "ex:hasCurrency", Label: "Has Currency", LocalName: "hasCurrency", Kind: model.PropertyKindObject, Domain: "ex:Account", Range: "ex:Currency"},
		},
	}
}

func TestNewIndex(t *testing.T) {
	t.Run("Builds index from structure", func(t *testing.T) {
		index := NewIndex(testStructure())
		assert.False(t, index.Empty(), "Index should not be empty")
		assert.Len(t, index.Properties(), 5, "Should index all properties")
		assert.Len(t, index.Classes(), 3, "Should index all classes")
	})

	t.Run("Nil structure yields empty index", func(t *testing.T) {
		index := NewIndex(nil)
		assert.True(t, index.Empty(), "Index should be empty")
		assert.Nil(t, index.PropertyByName("name"))
		assert.Nil(t, index.ClassByName("customer"))
	})

	t.Run("First declaration wins on name collisions", func(t *testing.T) {
		structure := &model.OntologyStructure{
			Properties: []model.OntologyProperty{
				{IRI: "ex:first", Label: "Name", Kind: model.PropertyKindData},
				{IRI: "ex:second", Label: "Name", Kind: model.PropertyKindData},
			},
		}
		index := NewIndex(structure)
		property := index.PropertyByName("name")
		require.NotNil(t, property)
		assert.Equal(t, "ex:first", property.IRI, "First declared property should win")
	})
}

func TestIndexLookups(t *testing.T) {
	index := NewIndex(testStructure())

	t.Run("Property by normalized label", func(t *testing.T) {
		property := index.PropertyByName("emailaddress")
		require.NotNil(t, property)
		assert.Equal(t, "ex:email", property.IRI)
	})

	t.Run("Label outranks local name", func(t *testing.T) {
		property := index.PropertyByName("name")
		require.NotNil(t, property)
		assert.Equal(t, "ex:name", property.IRI)
	})

	t.Run("Class by normalized name", func(t *testing.T) {
		class := index.ClassByName("customer")
		require.NotNil(t, class)
		assert.Equal(t, "ex:Customer", class.IRI)
	})

	t.Run("Class by IRI", func(t *testing.T) {
		class := index.ClassByIRI("ex:Currency")
		require.NotNil(t, class)
		assert.Equal(t, "Currency", class.Label)
	})

	t.Run("Unknown names return nil", func(t *testing.T) {
		assert.Nil(t, index.PropertyByName("unknown"))
		assert.Nil(t, index.ClassByName("unknown"))
		assert.Nil(t, index.ClassByIRI("ex:Unknown"))
	})
}

func TestObjectPropertiesWithRange(t *testing.T) {
	index := NewIndex(testStructure())

	t.Run("Returns candidates in declaration order", func(t *testing.T) {
		candidates := index.ObjectPropertiesWithRange("ex:Customer")
		require.Len(t, candidates, 2)
		assert.Equal(t, "ex:hasCustomer", candidates[0].IRI, "First declared candidate should come first")
		assert.Equal(t, "ex:ownedBy", candidates[1].IRI)
	})

	t.Run("Excludes data properties", func(t *testing.T) {
		for _, candidate := range index.ObjectPropertiesWithRange("ex:Customer") {
			assert.Equal(t, model.PropertyKindObject, candidate.Kind)
		}
	})

	t.Run("Returns nothing for unreferenced class", func(t *testing.T) {
		assert.Empty(t, index.ObjectPropertiesWithRange("ex:Account"))
	})
}
