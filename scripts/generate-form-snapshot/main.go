package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-comboform/pkg/schema"
	"github.com/goliatone/go-comboform/pkg/session"
	"github.com/goliatone/go-comboform/pkg/widgets"
)

// Writes the initial session snapshot for an OpenAPI document, useful when
// checking how a new document resolves its widgets and defaults.
func main() {
	var (
		schemaPath  = flag.String("schema", "", "OpenAPI document path (embedded form when empty)")
		operationID = flag.String("operation", schema.DefaultOperationID, "operation ID describing the form")
		outputPath  = flag.String("output", "", "output path for the snapshot (stdout when empty)")
		query       = flag.String("query", "", "optional combobox query applied before the snapshot")
	)
	flag.Parse()

	if err := run(*schemaPath, *operationID, *outputPath, *query); err != nil {
		fmt.Fprintf(os.Stderr, "failed to snapshot form: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaPath, operationID, outputPath, query string) error {
	opts := []session.Option{session.WithWidgetRegistry(widgets.NewRegistry())}
	if schemaPath != "" {
		def, err := schema.LoadSource(context.Background(), schema.SourceFromFile(schemaPath), operationID)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithSchema(def))
	}

	s, err := session.New(opts...)
	if err != nil {
		return err
	}
	if query != "" {
		if err := s.Combobox().SetQuery(query); err != nil {
			return err
		}
	}

	payload, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	if outputPath == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s\n", outputPath)
	return nil
}
