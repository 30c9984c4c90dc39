package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/mapper/helper"
)

// ColumnMappingRecord is the per-column result of a matching pass.
// If LinkedClassIRI is set, PropertyIRI (when set) must reference an object
// property whose range equals LinkedClassIRI. DomainIRI is informational and
// only meaningful for literal records.
type ColumnMappingRecord struct {
	PropertyIRI      string `json:"property_iri,omitempty"`
	PropertyLabel    string `json:"property_label"`
	LinkedClassIRI   string `json:"linked_class_iri,omitempty"`
	LinkedClassLabel string `json:"linked_class_label,omitempty"`
	DomainIRI        string `json:"domain_iri,omitempty"`
	DomainLabel      string `json:"domain_label,omitempty"`
	Ignore           bool   `json:"ignore"`
}

// Linked reports whether the column maps to a linked entity reference
func (r *ColumnMappingRecord) Linked() bool {
	return r != nil && r.LinkedClassIRI != ""
}

// MappingTable maps a column key (column name, or "sheet:column" for
// multi-sheet workbooks) to its mapping record
type MappingTable map[string]*ColumnMappingRecord

// Value implements the driver.Valuer interface for database storage
func (t MappingTable) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for database retrieval
func (t *MappingTable) Scan(value interface{}) error {
	if value == nil {
		*t = MappingTable{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, t)
}

// SheetClassMap maps a sheet name to the class IRI each row instantiates
type SheetClassMap map[string]string

// Value implements the driver.Valuer interface for database storage
func (m SheetClassMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *SheetClassMap) Scan(value interface{}) error {
	if value == nil {
		*m = SheetClassMap{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, m)
}

// HeaderList is an ordered column-name fingerprint stored as JSONB
type HeaderList []string

// Value implements the driver.Valuer interface for database storage
func (l HeaderList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for database retrieval
func (l *HeaderList) Scan(value interface{}) error {
	if value == nil {
		*l = HeaderList{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, l)
}

// AnalysisResult is the full outcome of one matching pass
type AnalysisResult struct {
	Mappings      MappingTable  `json:"mappings"`
	SheetClasses  SheetClassMap `json:"sheet_classes,omitempty"` // multi-sheet only
	PrimaryClass  string        `json:"primary_class,omitempty"`
	SourceHeaders []string      `json:"source_headers"`
}

// MappingSnapshot is a persisted mapping keyed by (ontology, workspace)
type MappingSnapshot struct {
	ID              int64         `json:"id"`
	RID             uuid.UUID     `json:"rid"`
	OntologyID      uuid.UUID     `json:"ontology_id"`
	WorkspaceID     uuid.UUID     `json:"workspace_id"`
	Mappings        MappingTable  `json:"mappings"`
	PrimaryClass    string        `json:"primary_class,omitempty"`
	SheetClassMap   SheetClassMap `json:"sheet_class_map,omitempty"`
	SourceHeaders   HeaderList    `json:"source_headers"`
	OntologyVersion string        `json:"ontology_version"` // version at save time
	SavedAt         time.Time     `json:"saved_at"`
}

// HeaderOverlap computes the fraction of shared column names between the
// snapshot's source headers and the current document's headers:
// |current ∩ saved| / max(len(current), len(saved)).
// Below the configured threshold the snapshot is unrelated to the document.
func (s *MappingSnapshot) HeaderOverlap(currentHeaders []string) float64 {
	if len(currentHeaders) == 0 && len(s.SourceHeaders) == 0 {
		return 0
	}

	saved := make(map[string]bool, len(s.SourceHeaders))
	for _, h := range s.SourceHeaders {
		saved[h] = true
	}

	shared := 0
	seen := make(map[string]bool, len(currentHeaders))
	for _, h := range currentHeaders {
		if saved[h] && !seen[h] {
			shared++
			seen[h] = true
		}
	}

	longest := len(currentHeaders)
	if len(s.SourceHeaders) > longest {
		longest = len(s.SourceHeaders)
	}

	return float64(shared) / float64(longest)
}

// StalenessReport describes how the ontology drifted since a snapshot was
// saved. Staleness is advisory and never blocks reuse of the mapping.
type StalenessReport struct {
	SavedVersion      string `json:"saved_version"`
	CurrentVersion    string `json:"current_version"`
	ClassesAdded      int    `json:"classes_added"`
	ClassesRemoved    int    `json:"classes_removed"`
	PropertiesAdded   int    `json:"properties_added"`
	PropertiesRemoved int    `json:"properties_removed"`
}

// Stale reports whether the snapshot was built against a different version
func (r *StalenessReport) Stale() bool {
	return r != nil && r.SavedVersion != r.CurrentVersion
}

// DiffStructures compares a saved ontology structure against the current one
// and counts added and removed classes and properties by IRI
func DiffStructures(saved, current *OntologyStructure) *StalenessReport {
	report := &StalenessReport{}
	if saved != nil {
		report.SavedVersion = saved.Version
	}
	if current != nil {
		report.CurrentVersion = current.Version
	}
	if saved == nil || current == nil {
		return report
	}

	savedClasses := make(map[string]bool, len(saved.Classes))
	for _, c := range saved.Classes {
		savedClasses[c.IRI] = true
	}
	currentClasses := make(map[string]bool, len(current.Classes))
	for _, c := range current.Classes {
		currentClasses[c.IRI] = true
		if !savedClasses[c.IRI] {
			report.ClassesAdded++
		}
	}
	for iri := range savedClasses {
		if !currentClasses[iri] {
			report.ClassesRemoved++
		}
	}

	savedProperties := make(map[string]bool, len(saved.Properties))
	for _, p := range saved.Properties {
		savedProperties[p.IRI] = true
	}
	currentProperties := make(map[string]bool, len(current.Properties))
	for _, p := range current.Properties {
		currentProperties[p.IRI] = true
		if !savedProperties[p.IRI] {
			report.PropertiesAdded++
		}
	}
	for iri := range savedProperties {
		if !currentProperties[iri] {
			report.PropertiesRemoved++
		}
	}

	return report
}
