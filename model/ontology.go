package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/mapper/helper"
)

// PropertyKind distinguishes literal attributes from relationship edges
type PropertyKind string

const (
	// PropertyKindData is a literal value stored directly on an entity
	PropertyKindData PropertyKind = "data"
	// PropertyKindObject is a relationship edge pointing to another class
	PropertyKindObject PropertyKind = "object"
)

// OntologyClass represents an entity type in the knowledge graph.
// Identity is the IRI.
type OntologyClass struct {
	IRI       string `json:"iri"`
	Label     string `json:"label"`
	LocalName string `json:"local_name,omitempty"`
}

// OntologyProperty represents an attribute or relationship declaration.
// Object properties carry a class IRI as range, data properties a literal type.
type OntologyProperty struct {
	IRI       string       `json:"iri"`
	Label     string       `json:"label"`
	LocalName string       `json:"local_name,omitempty"`
	Kind      PropertyKind `json:"kind"`
	Domain    string       `json:"domain,omitempty"`
	Range     string       `json:"range,omitempty"`
}

// UnmarshalJSON accepts both the structured record form and a bare name.
// Source ontologies mix the two; a bare name becomes a data property so the
// matching core only ever sees one uniform shape.
func (p *OntologyProperty) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*p = OntologyProperty{
			Label:     name,
			LocalName: name,
			Kind:      PropertyKindData,
		}
		return nil
	}

	type structuredProperty OntologyProperty
	var structured structuredProperty
	if err := json.Unmarshal(data, &structured); err != nil {
		return helper.NewError("unmarshal property", err)
	}
	if structured.Kind == "" {
		structured.Kind = PropertyKindData
	}

	*p = OntologyProperty(structured)
	return nil
}

// OntologyStructure is an immutable snapshot of classes and properties for
// one matching pass. Declaration order of properties is significant for
// tie-breaking and must be preserved.
type OntologyStructure struct {
	Version    string             `json:"version,omitempty"`
	Classes    []OntologyClass    `json:"classes"`
	Properties []OntologyProperty `json:"properties"`
}

// Value implements the driver.Valuer interface for database storage
func (s OntologyStructure) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *OntologyStructure) Scan(value interface{}) error {
	if value == nil {
		*s = OntologyStructure{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, s)
}

// ClassByIRI returns the class with the given IRI, or nil
func (s *OntologyStructure) ClassByIRI(iri string) *OntologyClass {
	if s == nil || iri == "" {
		return nil
	}
	for i := range s.Classes {
		if s.Classes[i].IRI == iri {
			return &s.Classes[i]
		}
	}
	return nil
}
