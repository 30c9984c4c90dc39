package match

import (
	"github.com/siherrmann/mapper/model"
)

// Index holds the lookup structures built from one ontology snapshot.
// It is built once per OntologyStructure and never mutated; a changed
// ontology gets a fresh index.
type Index struct {
	propertyByLabel     map[string]*model.OntologyProperty
	propertyByLocalName map[string]*model.OntologyProperty
	classByName         map[string]*model.OntologyClass
	classByIRI          map[string]*model.OntologyClass
	properties          []*model.OntologyProperty // declaration order
	classes             []*model.OntologyClass    // declaration order
}

// NewIndex builds an index over the given ontology structure.
// A nil or empty structure yields an empty index, which matches nothing.
func NewIndex(structure *model.OntologyStructure) *Index {
	index := &Index{
		propertyByLabel:     map[string]*model.OntologyProperty{},
		propertyByLocalName: map[string]*model.OntologyProperty{},
		classByName:         map[string]*model.OntologyClass{},
		classByIRI:          map[string]*model.OntologyClass{},
	}
	if structure == nil {
		return index
	}

	for i := range structure.Classes {
		class := &structure.Classes[i]
		index.classes = append(index.classes, class)
		if class.IRI != "" {
			index.classByIRI[class.IRI] = class
		}
		// first declaration wins on name collisions
		if name := NormalizeExact(class.Label); name != "" {
			if _, exists := index.classByName[name]; !exists {
				index.classByName[name] = class
			}
		}
		if name := NormalizeExact(class.LocalName); name != "" {
			if _, exists := index.classByName[name]; !exists {
				index.classByName[name] = class
			}
		}
	}

	for i := range structure.Properties {
		property := &structure.Properties[i]
		index.properties = append(index.properties, property)
		if name := NormalizeExact(property.Label); name != "" {
			if _, exists := index.propertyByLabel[name]; !exists {
				index.propertyByLabel[name] = property
			}
		}
		if name := NormalizeExact(property.LocalName); name != "" {
			if _, exists := index.propertyByLocalName[name]; !exists {
				index.propertyByLocalName[name] = property
			}
		}
	}

	return index
}

// Empty reports whether the index was built from an empty ontology
func (i *Index) Empty() bool {
	return len(i.classes) == 0 && len(i.properties) == 0
}

// PropertyByName looks up a property by normalized name, label first,
// then local name
func (i *Index) PropertyByName(normalized string) *model.OntologyProperty {
	if normalized == "" {
		return nil
	}
	if property, ok := i.propertyByLabel[normalized]; ok {
		return property
	}
	return i.propertyByLocalName[normalized]
}

// ClassByName looks up a class by normalized label or local name
func (i *Index) ClassByName(normalized string) *model.OntologyClass {
	if normalized == "" {
		return nil
	}
	return i.classByName[normalized]
}

// ClassByIRI looks up a class by IRI
func (i *Index) ClassByIRI(iri string) *model.OntologyClass {
	if iri == "" {
		return nil
	}
	return i.classByIRI[iri]
}

// Properties returns all properties in declaration order
func (i *Index) Properties() []*model.OntologyProperty {
	return i.properties
}

// Classes returns all classes in declaration order
func (i *Index) Classes() []*model.OntologyClass {
	return i.classes
}

// ObjectPropertiesWithRange returns all object properties whose declared
// range equals the given class IRI, in declaration order
func (i *Index) ObjectPropertiesWithRange(classIRI string) []*model.OntologyProperty {
	if classIRI == "" {
		return nil
	}
	var matches []*model.OntologyProperty
	for _, property := range i.properties {
		if property.Kind == model.PropertyKindObject && property.Range == classIRI {
			matches = append(matches, property)
		}
	}
	return matches
}

// className returns the normalized lookup name of a class, preferring the
// label over the local name
func className(class *model.OntologyClass) string {
	if name := NormalizeExact(class.Label); name != "" {
		return name
	}
	return NormalizeExact(class.LocalName)
}
