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

// MappingsDBHandlerFunctions defines the interface for mapping snapshot database operations.
type MappingsDBHandlerFunctions interface {
	InsertSnapshot(snapshot *model.MappingSnapshot) error
	SelectSnapshot(ontologyID, workspaceID uuid.UUID) (*model.MappingSnapshot, error)
	SelectSnapshotsByWorkspace(workspaceID uuid.UUID, limit int) ([]*model.MappingSnapshot, error)
	DeleteSnapshot(ontologyID, workspaceID uuid.UUID) error
}

// MappingsDBHandler handles mapping-snapshot-related database operations
type MappingsDBHandler struct {
	db *helper.Database
}

// NewMappingsDBHandler creates a new mappings database handler.
// It initializes the database connection and loads mapping-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewMappingsDBHandler(db *helper.Database, force bool) (*MappingsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	mappingsDbHandler := &MappingsDBHandler{
		db: db,
	}

	err := sql.LoadMappingsSql(mappingsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load mappings sql", err)
	}

	err = mappingsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized MappingsDBHandler")

	return mappingsDbHandler, nil
}

// CreateTable creates the 'mappings' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *MappingsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_mappings();`)
	if err != nil {
		log.Panicf("error initializing mappings table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table mappings")

	return nil
}

// InsertSnapshot inserts a mapping snapshot, replacing an existing one for
// the same (ontology, workspace) pair
func (h *MappingsDBHandler) InsertSnapshot(snapshot *model.MappingSnapshot) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_mapping($1, $2, $3, $4, $5, $6, $7)`,
		snapshot.OntologyID,
		snapshot.WorkspaceID,
		snapshot.Mappings,
		snapshot.PrimaryClass,
		snapshot.SheetClassMap,
		snapshot.SourceHeaders,
		snapshot.OntologyVersion,
	)

	err := row.Scan(
		&snapshot.ID,
		&snapshot.RID,
		&snapshot.OntologyID,
		&snapshot.WorkspaceID,
		&snapshot.Mappings,
		&snapshot.PrimaryClass,
		&snapshot.SheetClassMap,
		&snapshot.SourceHeaders,
		&snapshot.OntologyVersion,
		&snapshot.SavedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectSnapshot retrieves the snapshot for an (ontology, workspace) pair
func (h *MappingsDBHandler) SelectSnapshot(ontologyID, workspaceID uuid.UUID) (*model.MappingSnapshot, error) {
	snapshot := &model.MappingSnapshot{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_mapping($1, $2)`,
		ontologyID,
		workspaceID,
	)

	err := row.Scan(
		&snapshot.ID,
		&snapshot.RID,
		&snapshot.OntologyID,
		&snapshot.WorkspaceID,
		&snapshot.Mappings,
		&snapshot.PrimaryClass,
		&snapshot.SheetClassMap,
		&snapshot.SourceHeaders,
		&snapshot.OntologyVersion,
		&snapshot.SavedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return snapshot, nil
}

// SelectSnapshotsByWorkspace retrieves the most recent snapshots of a workspace
func (h *MappingsDBHandler) SelectSnapshotsByWorkspace(workspaceID uuid.UUID, limit int) ([]*model.MappingSnapshot, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_mappings_by_workspace($1, $2)`,
		workspaceID,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var snapshots []*model.MappingSnapshot
	for rows.Next() {
		snapshot := &model.MappingSnapshot{}
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.RID,
			&snapshot.OntologyID,
			&snapshot.WorkspaceID,
			&snapshot.Mappings,
			&snapshot.PrimaryClass,
			&snapshot.SheetClassMap,
			&snapshot.SourceHeaders,
			&snapshot.OntologyVersion,
			&snapshot.SavedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		snapshots = append(snapshots, snapshot)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return snapshots, nil
}

// DeleteSnapshot deletes the snapshot for an (ontology, workspace) pair
func (h *MappingsDBHandler) DeleteSnapshot(ontologyID, workspaceID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_mapping($1, $2)`,
		ontologyID,
		workspaceID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
