package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/mapper/helper"
	"github.com/siherrmann/mapper/model"
	"github.com/siherrmann/mapper/sql"
)

// OntologiesDBHandlerFunctions defines the interface for ontology version database operations.
type OntologiesDBHandlerFunctions interface {
	InsertVersion(ontologyID uuid.UUID, structure *model.OntologyStructure) error
	SelectVersion(ontologyID uuid.UUID, version string) (*model.OntologyStructure, error)
	SelectLatestVersion(ontologyID uuid.UUID) (*model.OntologyStructure, error)
	DeleteVersions(ontologyID uuid.UUID) error
}

// OntologiesDBHandler handles versioned ontology structure records.
// The structures are kept so the staleness of a saved mapping can be diffed
// against the ontology version it was built for.
type OntologiesDBHandler struct {
	db *helper.Database
}

// NewOntologiesDBHandler creates a new ontology versions database handler.
// It initializes the database connection and loads ontology-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewOntologiesDBHandler(db *helper.Database, force bool) (*OntologiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	ontologiesDbHandler := &OntologiesDBHandler{
		db: db,
	}

	err := sql.LoadOntologiesSql(ontologiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load ontologies sql", err)
	}

	err = ontologiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized OntologiesDBHandler")

	return ontologiesDbHandler, nil
}

// CreateTable creates the 'ontology_versions' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *OntologiesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_ontologies();`)
	if err != nil {
		log.Panicf("error initializing ontology_versions table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table ontology_versions")

	return nil
}

// InsertVersion stores a versioned ontology structure (or updates it if the
// version was already recorded)
func (h *OntologiesDBHandler) InsertVersion(ontologyID uuid.UUID, structure *model.OntologyStructure) error {
	if structure == nil {
		return helper.NewError("structure validation", fmt.Errorf("ontology structure is nil"))
	}
	if structure.Version == "" {
		return helper.NewError("structure validation", fmt.Errorf("ontology structure has no version"))
	}

	var id int64
	var version string
	var createdAt time.Time
	stored := &model.OntologyStructure{}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_ontology_version($1, $2, $3)`,
		ontologyID,
		structure.Version,
		structure,
	)

	err := row.Scan(
		&id,
		&ontologyID,
		&version,
		stored,
		&createdAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectVersion retrieves the structure stored for a specific version
func (h *OntologiesDBHandler) SelectVersion(ontologyID uuid.UUID, version string) (*model.OntologyStructure, error) {
	var id int64
	var createdAt time.Time
	structure := &model.OntologyStructure{}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_ontology_version($1, $2)`,
		ontologyID,
		version,
	)

	err := row.Scan(
		&id,
		&ontologyID,
		&version,
		structure,
		&createdAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return structure, nil
}

// SelectLatestVersion retrieves the most recently stored structure
func (h *OntologiesDBHandler) SelectLatestVersion(ontologyID uuid.UUID) (*model.OntologyStructure, error) {
	var id int64
	var version string
	var createdAt time.Time
	structure := &model.OntologyStructure{}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_latest_ontology_version($1)`,
		ontologyID,
	)

	err := row.Scan(
		&id,
		&ontologyID,
		&version,
		structure,
		&createdAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return structure, nil
}

// DeleteVersions deletes all stored versions of an ontology
func (h *OntologiesDBHandler) DeleteVersions(ontologyID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_ontology_versions($1)`,
		ontologyID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
