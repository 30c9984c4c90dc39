package match

import (
	"strings"

	"github.com/siherrmann/mapper/model"
)

const (
	// idSuffix marks foreign-key-style column names like customer_id
	idSuffix = "id"
	// minSuffixStripLength guards the suffix-stripped lookup against
	// degenerate stems ("id", "xid")
	minSuffixStripLength = 4
	// minPrefixTokenLength guards tokenized-prefix class matching against
	// trivial one- and two-letter tokens
	minPrefixTokenLength = 3
)

// Engine resolves columns against one ontology snapshot. It is pure and
// deterministic: identical inputs yield identical mapping tables.
type Engine struct {
	index  *Index
	config model.MatchConfig
}

// NewEngine creates a matching engine over the given ontology structure.
// A nil config uses DefaultMatchConfig.
func NewEngine(structure *model.OntologyStructure, config *model.MatchConfig) *Engine {
	cfg := model.DefaultMatchConfig()
	if config != nil {
		cfg = *config
	}
	return &Engine{
		index:  NewIndex(structure),
		config: cfg,
	}
}

// Index exposes the engine's ontology index for sheet-aware refinement
func (e *Engine) Index() *Index {
	return e.index
}

// MapColumns maps every header to a mapping record keyed by column name
func (e *Engine) MapColumns(headers []string) model.MappingTable {
	table := make(model.MappingTable, len(headers))
	for _, header := range headers {
		if _, exists := table[header]; exists {
			continue
		}
		table[header] = e.MapColumn(header)
	}
	return table
}

// MapColumn resolves a single column in strict precedence order:
// exact match, suffix-stripped match, fuzzy token overlap, linked-class
// detection, object-property resolution, domain annotation.
func (e *Engine) MapColumn(column string) *model.ColumnMappingRecord {
	// auto fallback: literal column named after itself
	record := &model.ColumnMappingRecord{PropertyLabel: column}
	if e.index.Empty() {
		return record
	}

	normalized := NormalizeExact(column)

	// 1. exact match locks the property against fuzzy override
	property := e.index.PropertyByName(normalized)

	// 2. suffix-stripped match: customerid vs customer
	if property == nil && len(normalized) >= minSuffixStripLength && strings.HasSuffix(normalized, idSuffix) {
		property = e.index.PropertyByName(strings.TrimSuffix(normalized, idSuffix))
	}

	// 3. fuzzy token overlap
	if property == nil {
		property = e.fuzzyMatch(column)
	}

	// 4. linked-class detection, independent of 1-3
	linked := e.detectLinkedClass(column, normalized, property)

	// 5. object-property resolution for linked columns
	if linked != nil {
		property, linked = e.resolveLink(property, linked)
	}
	if linked == nil && property != nil && property.Kind == model.PropertyKindObject {
		// a matched object property always links to its own range so the
		// commit pipeline never sees a typed edge without a target class
		linked = e.index.ClassByIRI(property.Range)
	}

	if property != nil {
		record.PropertyIRI = property.IRI
		record.PropertyLabel = propertyLabel(property)
	}
	if linked != nil {
		record.LinkedClassIRI = linked.IRI
		record.LinkedClassLabel = linked.Label
	}

	// 6. domain annotation for literal records, display only
	if linked == nil && property != nil && property.Domain != "" {
		if domain := e.index.ClassByIRI(property.Domain); domain != nil {
			record.DomainIRI = domain.IRI
			record.DomainLabel = domain.Label
		}
	}

	return record
}

// fuzzyMatch scores every property by tokenized overlap with the column
// name and returns the best one above the acceptance threshold.
// Ties break toward the first property in declaration order.
func (e *Engine) fuzzyMatch(column string) *model.OntologyProperty {
	columnTokens := dropGenericTokens(Tokenize(column))
	if len(columnTokens) == 0 {
		return nil
	}

	var best *model.OntologyProperty
	var bestScore float64
	for _, property := range e.index.Properties() {
		propertyTokens := dropGenericTokens(Tokenize(propertyLabel(property)))
		if len(propertyTokens) == 0 {
			continue
		}
		score := tokenOverlapScore(columnTokens, propertyTokens)
		if score > bestScore {
			best = property
			bestScore = score
		}
	}

	if bestScore >= e.config.FuzzyAcceptThreshold {
		return best
	}
	return nil
}

// detectLinkedClass decides whether the column references a separate entity.
// Columns with a trailing id suffix match by stem; whole-name class matches
// without the suffix only apply when no data property already claimed the
// column.
func (e *Engine) detectLinkedClass(column, normalized string, property *model.OntologyProperty) *model.OntologyClass {
	if strings.HasSuffix(normalized, idSuffix) && len(normalized) > len(idSuffix) {
		stem := strings.TrimSuffix(normalized, idSuffix)

		if class := e.index.ClassByName(stem); class != nil {
			return class
		}

		// class name embedded at either end of the stem
		for _, class := range e.index.Classes() {
			name := className(class)
			if name == "" {
				continue
			}
			if strings.HasPrefix(stem, name) || strings.HasSuffix(stem, name) {
				return class
			}
		}

		// compound stems: PrimaryCustomerID -> [primary customer] -> Customer
		stemTokens := dropGenericTokens(Tokenize(column))
		for _, class := range e.index.Classes() {
			name := className(class)
			if name == "" {
				continue
			}
			for _, token := range stemTokens {
				if token == name || (len(token) >= minPrefixTokenLength && strings.HasPrefix(name, token)) {
					return class
				}
			}
		}

		return nil
	}

	// whole-name class match (column currency -> class Currency); a
	// confirmed data-property match outranks the name coincidence
	if property == nil || property.Kind == model.PropertyKindObject {
		return e.index.ClassByName(normalized)
	}
	return nil
}

// resolveLink finds the object property representing the link to a detected
// class. When no valid object property exists the link is discarded so no
// structurally invalid edge reaches the commit pipeline; a data property
// located earlier survives as a plain literal mapping.
func (e *Engine) resolveLink(property *model.OntologyProperty, linked *model.OntologyClass) (*model.OntologyProperty, *model.OntologyClass) {
	if property != nil && property.Kind == model.PropertyKindObject {
		if property.Range == linked.IRI {
			return property, linked
		}
		// the locked object property outranks the name-derived class;
		// follow its declared range instead
		if rangeClass := e.index.ClassByIRI(property.Range); rangeClass != nil {
			return property, rangeClass
		}
		return property, nil
	}

	if candidates := e.index.ObjectPropertiesWithRange(linked.IRI); len(candidates) > 0 {
		return candidates[0], linked
	}

	// has<Class> naming fallback
	if name := className(linked); name != "" {
		if has := e.index.PropertyByName("has" + name); has != nil && has.Kind == model.PropertyKindObject {
			return has, linked
		}
	}

	return property, nil
}

// tokenOverlapScore scores two token sequences: +2 per identical token,
// +1 per prefix relation, each candidate token consumed at most once,
// normalized by the longer sequence
func tokenOverlapScore(columnTokens, propertyTokens []string) float64 {
	used := make([]bool, len(propertyTokens))
	raw := 0

	for _, columnToken := range columnTokens {
		bestIndex := -1
		bestPoints := 0
		for j, propertyToken := range propertyTokens {
			if used[j] {
				continue
			}
			points := 0
			switch {
			case columnToken == propertyToken:
				points = 2
			case strings.HasPrefix(propertyToken, columnToken) || strings.HasPrefix(columnToken, propertyToken):
				points = 1
			}
			if points > bestPoints {
				bestPoints = points
				bestIndex = j
			}
		}
		if bestIndex >= 0 {
			used[bestIndex] = true
			raw += bestPoints
		}
	}

	longest := len(columnTokens)
	if len(propertyTokens) > longest {
		longest = len(propertyTokens)
	}

	return float64(raw) / float64(longest)
}

// dropGenericTokens removes the generic id token, which carries no naming
// signal of its own
func dropGenericTokens(tokens []string) []string {
	var filtered []string
	for _, token := range tokens {
		if token == idSuffix {
			continue
		}
		filtered = append(filtered, token)
	}
	return filtered
}

// propertyLabel returns the display label of a property, falling back to
// the local name
func propertyLabel(property *model.OntologyProperty) string {
	if property.Label != "" {
		return property.Label
	}
	return property.LocalName
}
