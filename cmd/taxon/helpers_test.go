package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/plumline/taxon/internal/common"
)

func writeInputFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing input file: %v", err)
	}
	return path
}

func TestReadInputs_SingleObject(t *testing.T) {
	path := writeInputFile(t, `{"title": "Kettle Chips", "product_type": "Snacks"}`)

	inputs, err := readInputs(path)
	if err != nil {
		t.Fatalf("readInputs() error = %v", err)
	}
	if len(inputs) != 1 || inputs[0].Title != "Kettle Chips" {
		t.Errorf("inputs = %+v", inputs)
	}
}

func TestReadInputs_Array(t *testing.T) {
	path := writeInputFile(t, `[{"title": "Kettle Chips"}, {"title": "Tortilla Chips"}]`)

	inputs, err := readInputs(path)
	if err != nil {
		t.Fatalf("readInputs() error = %v", err)
	}
	if len(inputs) != 2 || inputs[1].Title != "Tortilla Chips" {
		t.Errorf("inputs = %+v", inputs)
	}
}

func TestReadInputs_FailuresAreUserErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.json") },
		},
		{
			name: "malformed object",
			path: func(t *testing.T) string { return writeInputFile(t, `{"title": `) },
		},
		{
			name: "malformed array",
			path: func(t *testing.T) string { return writeInputFile(t, `[{"title": "x"},]`) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readInputs(tt.path(t))
			if err == nil {
				t.Fatal("readInputs() should fail")
			}
			var userErr *common.UserError
			if !errors.As(err, &userErr) {
				t.Errorf("error %v should carry a user-facing message", err)
			}
		})
	}
}
