package mapper

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/mapper/core/match"
	"github.com/siherrmann/mapper/core/sheets"
	"github.com/siherrmann/mapper/database"
	"github.com/siherrmann/mapper/helper"
	"github.com/siherrmann/mapper/model"
	loadSql "github.com/siherrmann/mapper/sql"
)

// Mapper provides a unified interface to the matching engine and the
// mapping record store
type Mapper struct {
	DB         *helper.Database
	Mappings   *database.MappingsDBHandler
	Ontologies *database.OntologiesDBHandler
	// Logging
	log *slog.Logger
}

// NewMapper creates a new Mapper instance with all handlers initialized
func NewMapper(config *helper.DatabaseConfiguration) (*Mapper, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("mapper", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	mappings, err := database.NewMappingsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create mappings handler", err)
	}

	ontologies, err := database.NewOntologiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create ontologies handler", err)
	}

	return &Mapper{
		DB:         db,
		Mappings:   mappings,
		Ontologies: ontologies,
		log:        logger,
	}, nil
}

// Close closes the database connection
func (m *Mapper) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Analyze maps every column of the workbook against the ontology structure.
// The computation is pure and idempotent: no I/O happens here, and identical
// inputs always produce identical results. A nil config uses
// model.DefaultMatchConfig, a nil or empty ontology yields all-literal auto
// mappings.
func (m *Mapper) Analyze(structure *model.OntologyStructure, workbook *model.Workbook, config *model.MatchConfig) *model.AnalysisResult {
	if workbook == nil {
		workbook = &model.Workbook{}
	}
	result := AnalyzeWorkbook(structure, workbook, config)

	linked := 0
	for _, record := range result.Mappings {
		if record.Linked() {
			linked++
		}
	}
	m.log.Info("Analyzed workbook",
		slog.Int("num_sheets", len(workbook.Sheets)),
		slog.Int("num_columns", len(result.Mappings)),
		slog.Int("num_linked", linked),
	)

	return result
}

// AnalyzeWorkbook is the pure entry point of the matching engine, usable
// without a Mapper instance (and therefore without a database)
func AnalyzeWorkbook(structure *model.OntologyStructure, workbook *model.Workbook, config *model.MatchConfig) *model.AnalysisResult {
	cfg := model.DefaultMatchConfig()
	if config != nil {
		cfg = *config
	}
	if workbook == nil {
		workbook = &model.Workbook{}
	}

	engine := match.NewEngine(structure, &cfg)
	result := &model.AnalysisResult{
		Mappings:      model.MappingTable{},
		SourceHeaders: workbook.AllHeaders(),
		PrimaryClass:  cfg.DefaultPrimaryClass,
	}

	if !workbook.MultiSheet() {
		if len(workbook.Sheets) == 1 {
			result.Mappings = engine.MapColumns(workbook.Sheets[0].Headers)
		}
		return result
	}

	sheetTables := make(map[string]model.MappingTable, len(workbook.Sheets))
	for _, sheet := range workbook.Sheets {
		sheetTables[sheet.Name] = engine.MapColumns(sheet.Headers)
	}

	resolver := sheets.NewResolver(structure, &cfg)
	result.Mappings, result.SheetClasses = resolver.Resolve(workbook, sheetTables)

	if result.PrimaryClass == "" && len(workbook.Sheets) > 0 {
		result.PrimaryClass = result.SheetClasses[workbook.Sheets[0].Name]
	}

	return result
}

// SaveSnapshot persists an analysis result for an (ontology, workspace)
// pair, along with the versioned ontology structure it was computed against
func (m *Mapper) SaveSnapshot(ctx context.Context, result *model.AnalysisResult, structure *model.OntologyStructure, ontologyID, workspaceID uuid.UUID) (*model.MappingSnapshot, error) {
	if result == nil {
		return nil, helper.NewError("save snapshot", errors.New("analysis result is nil"))
	}
	if err := ctx.Err(); err != nil {
		return nil, helper.NewError("save snapshot", err)
	}

	if structure != nil && structure.Version != "" {
		if err := m.Ontologies.InsertVersion(ontologyID, structure); err != nil {
			return nil, helper.NewError("store ontology version", err)
		}
	}

	snapshot := &model.MappingSnapshot{
		OntologyID:    ontologyID,
		WorkspaceID:   workspaceID,
		Mappings:      result.Mappings,
		PrimaryClass:  result.PrimaryClass,
		SheetClassMap: result.SheetClasses,
		SourceHeaders: result.SourceHeaders,
	}
	if structure != nil {
		snapshot.OntologyVersion = structure.Version
	}

	if err := m.Mappings.InsertSnapshot(snapshot); err != nil {
		return nil, helper.NewError("store mapping snapshot", err)
	}

	m.log.Info("Saved mapping snapshot",
		slog.String("ontology_id", ontologyID.String()),
		slog.String("workspace_id", workspaceID.String()),
		slog.String("ontology_version", snapshot.OntologyVersion),
	)

	return snapshot, nil
}

// LoadSnapshot loads a previously saved mapping for an (ontology, workspace)
// pair and validates it against the current document and ontology.
//
// A store failure, a missing record or a header overlap below the configured
// threshold is a cache miss: (nil, nil, nil) is returned and the caller
// recomputes from scratch. A version mismatch produces an advisory
// StalenessReport; the (possibly outdated) snapshot is still returned.
func (m *Mapper) LoadSnapshot(ctx context.Context, ontologyID, workspaceID uuid.UUID, currentHeaders []string, current *model.OntologyStructure, config *model.MatchConfig) (*model.MappingSnapshot, *model.StalenessReport, error) {
	cfg := model.DefaultMatchConfig()
	if config != nil {
		cfg = *config
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, helper.NewError("load snapshot", err)
	}

	snapshot, err := m.Mappings.SelectSnapshot(ontologyID, workspaceID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.log.Warn("Mapping snapshot unavailable, treating as cache miss", slog.String("error", err.Error()))
		}
		return nil, nil, nil
	}

	overlap := snapshot.HeaderOverlap(currentHeaders)
	if overlap < cfg.HeaderOverlapThreshold {
		m.log.Info("Discarded unrelated mapping snapshot",
			slog.Float64("overlap", overlap),
			slog.Float64("threshold", cfg.HeaderOverlapThreshold),
		)
		return nil, nil, nil
	}

	var report *model.StalenessReport
	if current != nil && snapshot.OntologyVersion != current.Version {
		saved, err := m.Ontologies.SelectVersion(ontologyID, snapshot.OntologyVersion)
		if err != nil {
			// version record lost, report the mismatch without diff counts
			report = &model.StalenessReport{
				SavedVersion:   snapshot.OntologyVersion,
				CurrentVersion: current.Version,
			}
		} else {
			report = model.DiffStructures(saved, current)
			report.SavedVersion = snapshot.OntologyVersion
			report.CurrentVersion = current.Version
		}
		m.log.Warn("Mapping snapshot is stale",
			slog.String("saved_version", report.SavedVersion),
			slog.String("current_version", report.CurrentVersion),
			slog.Int("classes_removed", report.ClassesRemoved),
			slog.Int("properties_removed", report.PropertiesRemoved),
		)
	}

	return snapshot, report, nil
}

// DeleteSnapshot removes the saved mapping for an (ontology, workspace) pair
func (m *Mapper) DeleteSnapshot(ontologyID, workspaceID uuid.UUID) error {
	return m.Mappings.DeleteSnapshot(ontologyID, workspaceID)
}
