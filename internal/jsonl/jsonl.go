package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"psmigrate/internal/model"
)

// maxLine bounds a single record when reading; product payloads with long descriptions
// easily exceed bufio's default token size.
const maxLine = 16 * 1024 * 1024

type record struct {
	Input *model.ProductSet `json:"input"`
}

// Write emits one {"input": <product>} object per line.
func Write(w io.Writer, products []*model.ProductSet) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, p := range products {
		if err := enc.Encode(record{Input: p}); err != nil {
			return fmt.Errorf("failed to encode product %s: %w", p.Handle, err)
		}
	}
	return bw.Flush()
}

// WriteFile writes products to path, creating the parent directory when needed.
func WriteFile(path string, products []*model.ProductSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, products); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes a file produced by Write. Blank lines are ignored.
func Read(r io.Reader) ([]*model.ProductSet, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var products []*model.ProductSet
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Input == nil {
			return nil, fmt.Errorf("line %d: missing input object", line)
		}
		products = append(products, rec.Input)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// ReadFile reads products from a JSONL file.
func ReadFile(path string) ([]*model.ProductSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
