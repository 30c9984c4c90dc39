package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/siherrmann/mapper"
	"github.com/siherrmann/mapper/helper"
	"github.com/siherrmann/mapper/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	m, err := mapper.NewMapper(dbConfig)
	if err != nil {
		log.Fatalf("Failed to create mapper: %v", err)
	}
	defer m.Close()

	structure := &model.OntologyStructure{
		Version: "v1",
		Classes: []model.OntologyClass{
			{IRI: "ex:Customer", Label: "Customer"},
			{IRI: "ex:Account", Label: "Account"},
			{IRI: "ex:RiskAssessment", Label: "RiskAssessment"},
		},
		Properties: []model.OntologyProperty{
			{IRI: "ex:name", Label: "Name", Kind: model.PropertyKindData, Domain: "ex:Customer"},
			{IRI: "ex:iban", Label: "IBAN", Kind: model.PropertyKindData, Domain: "ex:Account"},
			{IRI: "ex:score", Label: "Score", Kind: model.PropertyKindData, Domain: "ex:RiskAssessment"},
			{IRI: "ex:hasCustomer", Label: "Has Customer", Kind: model.PropertyKindObject, Domain: "ex:Account", Range: "ex:Customer"},
			{IRI: "ex:assessedCustomer", Label: "Assessed Customer", Kind: model.PropertyKindObject, Domain: "ex:RiskAssessment", Range: "ex:Customer"},
		},
	}

	// An Excel upload with one sheet per entity type. The same customer_id
	// column means different relationships depending on the sheet.
	workbook := &model.Workbook{
		Sheets: []model.SheetDescriptor{
			{Name: "Customers", Headers: []string{"CustomerID", "Name"}, RowCount: 120},
			{Name: "Accounts", Headers: []string{"IBAN", "customer_id"}, RowCount: 340},
			{Name: "RiskAssessments", Headers: []string{"Score", "customer_id"}, RowCount: 120},
		},
	}

	fmt.Println("Analyzing workbook...")
	result := m.Analyze(structure, workbook, nil)

	for sheet, classIRI := range result.SheetClasses {
		fmt.Printf("Sheet %-16s -> rows instantiate %s\n", sheet, classIRI)
	}
	fmt.Println()
	for _, sheet := range workbook.Sheets {
		for _, column := range sheet.Headers {
			record := result.Mappings[sheet.Name+":"+column]
			if record.Linked() {
				fmt.Printf("%-28s -> link to %s via %s\n", sheet.Name+":"+column, record.LinkedClassLabel, record.PropertyLabel)
			} else {
				fmt.Printf("%-28s -> property %q\n", sheet.Name+":"+column, record.PropertyLabel)
			}
		}
	}

	// Persist the reviewed mapping so re-uploads of the same workbook skip
	// the review wizard
	ontologyID := uuid.New()
	workspaceID := uuid.New()

	if _, err := m.SaveSnapshot(context.Background(), result, structure, ontologyID, workspaceID); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	fmt.Println("\nSaved mapping snapshot")

	// Simulate a later upload against an evolved ontology
	evolved := &model.OntologyStructure{
		Version:    "v2",
		Classes:    structure.Classes[:2], // RiskAssessment removed
		Properties: structure.Properties,
	}

	snapshot, staleness, err := m.LoadSnapshot(context.Background(), ontologyID, workspaceID, workbook.AllHeaders(), evolved, nil)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	if snapshot == nil {
		log.Fatal("Expected a snapshot hit")
	}

	fmt.Printf("Loaded snapshot saved at %s with %d column mappings\n", snapshot.SavedAt.Format("15:04:05"), len(snapshot.Mappings))
	if staleness.Stale() {
		fmt.Printf("Ontology drifted from %s to %s: %d classes removed, %d classes added\n",
			staleness.SavedVersion, staleness.CurrentVersion, staleness.ClassesRemoved, staleness.ClassesAdded)
	}

	fmt.Println("\nWorkbook example completed successfully!")
}
