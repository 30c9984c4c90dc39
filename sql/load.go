package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed mappings.sql
var mappingsSQL string

//go:embed ontologies.sql
var ontologiesSQL string

// Function lists for verification
var MappingsFunctions = []string{
	"init_mappings",
	"insert_mapping",
	"select_mapping",
	"select_mappings_by_workspace",
	"delete_mapping",
}

var OntologiesFunctions = []string{
	"init_ontologies",
	"insert_ontology_version",
	"select_ontology_version",
	"select_latest_ontology_version",
	"delete_ontology_versions",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadMappingsSql loads mapping-snapshot-related SQL functions
func LoadMappingsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, MappingsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing mappings functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(mappingsSQL)
	if err != nil {
		return fmt.Errorf("error executing mappings SQL: %w", err)
	}

	exist, err := checkFunctions(db, MappingsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL mappings functions loaded successfully")
	return nil
}

// LoadOntologiesSql loads ontology-version-related SQL functions
func LoadOntologiesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, OntologiesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing ontologies functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(ontologiesSQL)
	if err != nil {
		return fmt.Errorf("error executing ontologies SQL: %w", err)
	}

	exist, err := checkFunctions(db, OntologiesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL ontologies functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadMappingsSql(db, force); err != nil {
		return err
	}

	if err := LoadOntologiesSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
