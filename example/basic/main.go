package main

import (
	"context"
	"fmt"
	"log"

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

	// A small banking ontology: two entity types and the properties
	// connecting and describing them
	structure := &model.OntologyStructure{
		Version: "v1",
		Classes: []model.OntologyClass{
			{IRI: "ex:Customer", Label: "Customer"},
			{IRI: "ex:Account", Label: "Account"},
		},
		Properties: []model.OntologyProperty{
			{IRI: "ex:name", Label: "Name", Kind: model.PropertyKindData, Domain: "ex:Customer"},
			{IRI: "ex:email", Label: "Email Address", Kind: model.PropertyKindData, Domain: "ex:Customer"},
			{IRI: "ex:iban", Label: "IBAN", Kind: model.PropertyKindData, Domain: "ex:Account"},
			{IRI: "ex:hasCustomer", Label: "Has Customer", Kind: model.PropertyKindObject, Domain: "ex:Account", Range: "ex:Customer"},
		},
	}

	// The header row of an uploaded CSV file
	workbook := model.NewSingleSheetWorkbook("accounts.csv", []string{
		"IBAN",
		"customer_id",
		"email",
		"opening_balance",
	}, 250)

	fmt.Println("Analyzing columns...")
	result := m.Analyze(structure, workbook, nil)

	for _, column := range workbook.AllHeaders() {
		record := result.Mappings[column]
		switch {
		case record.Linked():
			fmt.Printf("%-16s -> link to %s via %s\n", column, record.LinkedClassLabel, record.PropertyLabel)
		case record.PropertyIRI != "":
			fmt.Printf("%-16s -> property %s\n", column, record.PropertyLabel)
		default:
			fmt.Printf("%-16s -> new property %q\n", column, record.PropertyLabel)
		}
	}

	fmt.Println("\nBasic example completed successfully!")
}
