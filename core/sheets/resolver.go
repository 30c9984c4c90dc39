// Package sheets refines flat per-column mappings with multi-sheet workbook
// context: which class a sheet's rows instantiate, which of several candidate
// relationships a foreign-key column uses, and which links are really the
// sheet's own identifying key.
package sheets

import (
	"strings"

	"github.com/siherrmann/mapper/core/match"
	"github.com/siherrmann/mapper/model"
)

// Resolver applies sheet context to flat matching results. Like the matching
// engine it is pure and deterministic.
type Resolver struct {
	index  *match.Index
	config model.MatchConfig
}

// NewResolver creates a resolver over the given ontology structure.
// A nil config uses DefaultMatchConfig.
func NewResolver(structure *model.OntologyStructure, config *model.MatchConfig) *Resolver {
	cfg := model.DefaultMatchConfig()
	if config != nil {
		cfg = *config
	}
	return &Resolver{
		index:  match.NewIndex(structure),
		config: cfg,
	}
}

// Resolve refines the flat per-sheet tables into a single workbook-wide
// mapping table keyed by "sheet:column" and the inferred per-sheet primary
// classes. It never mutates the input tables.
func (r *Resolver) Resolve(workbook *model.Workbook, sheetTables map[string]model.MappingTable) (model.MappingTable, model.SheetClassMap) {
	refined := model.MappingTable{}
	sheetClasses := model.SheetClassMap{}

	for _, sheet := range workbook.Sheets {
		primaryIRI := r.config.DefaultPrimaryClass
		if class := r.InferPrimaryClass(sheet.Name); class != nil {
			primaryIRI = class.IRI
		}
		if primaryIRI != "" {
			sheetClasses[sheet.Name] = primaryIRI
		}

		table := sheetTables[sheet.Name]
		for _, column := range sheet.Headers {
			record := table[column]
			if record == nil {
				record = &model.ColumnMappingRecord{PropertyLabel: column}
			}
			refined[SheetColumnKey(sheet.Name, column)] = r.refineRecord(record, column, primaryIRI)
		}
	}

	return refined, sheetClasses
}

// InferPrimaryClass resolves the class a sheet's rows instantiate from the
// sheet name: exact match, plural-stripped match, then partial match
func (r *Resolver) InferPrimaryClass(sheetName string) *model.OntologyClass {
	normalized := match.NormalizeExact(sheetName)
	if normalized == "" {
		return nil
	}

	if class := r.index.ClassByName(normalized); class != nil {
		return class
	}

	if strings.HasSuffix(normalized, "s") {
		if class := r.index.ClassByName(strings.TrimSuffix(normalized, "s")); class != nil {
			return class
		}
	}

	for _, class := range r.index.Classes() {
		name := match.NormalizeExact(class.Label)
		if name == "" {
			name = match.NormalizeExact(class.LocalName)
		}
		if name == "" {
			continue
		}
		if strings.HasPrefix(normalized, name) || strings.HasPrefix(name, normalized) {
			return class
		}
	}

	return nil
}

// refineRecord applies self-reference demotion and domain-aware
// object-property refinement to one column of one sheet
func (r *Resolver) refineRecord(record *model.ColumnMappingRecord, column, primaryIRI string) *model.ColumnMappingRecord {
	refined := *record
	if !refined.Linked() || primaryIRI == "" {
		return &refined
	}

	if refined.LinkedClassIRI == primaryIRI {
		// the column is the sheet's own identifying key, not a foreign key
		return demoteToLiteral(&refined, column)
	}

	// several relationships can point at the same class; the sheet's
	// primary class picks the one whose domain matches
	candidates := r.index.ObjectPropertiesWithRange(refined.LinkedClassIRI)
	if len(candidates) > 1 {
		for _, candidate := range candidates {
			if candidate.Domain == primaryIRI {
				refined.PropertyIRI = candidate.IRI
				refined.PropertyLabel = candidateLabel(candidate)
				break
			}
		}
	}

	return &refined
}

// demoteToLiteral clears the link and everything that only made sense for a
// linked column. An object property cannot represent a literal value, so the
// record reverts to the auto fallback.
func demoteToLiteral(record *model.ColumnMappingRecord, column string) *model.ColumnMappingRecord {
	record.LinkedClassIRI = ""
	record.LinkedClassLabel = ""
	record.DomainIRI = ""
	record.DomainLabel = ""
	record.PropertyIRI = ""
	record.PropertyLabel = column
	return record
}

// SheetColumnKey builds the mapping-table key for a column of a named sheet
func SheetColumnKey(sheet, column string) string {
	return sheet + ":" + column
}

func candidateLabel(property *model.OntologyProperty) string {
	if property.Label != "" {
		return property.Label
	}
	return property.LocalName
}
