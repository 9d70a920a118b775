// Package questionbank loads and validates the static question catalog.
package questionbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pawcheck/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed data/schema.json
var schemaJSON []byte

//go:embed data/default.json
var defaultBankJSON []byte

const schemaURL = "schema://question-bank.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add bank schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Default returns the bank embedded in the binary.
func Default() (*domain.QuestionBank, error) {
	return Parse(defaultBankJSON)
}

// Load reads a bank from path. An empty path selects the embedded default.
// Files ending in .yaml or .yml are converted to JSON before validation.
func Load(path string) (*domain.QuestionBank, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewInvalidBankError(fmt.Sprintf("failed to read question bank %s", path), err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return Parse(data)
}

// ParseYAML accepts the same document as Parse written in YAML.
func ParseYAML(data []byte) (*domain.QuestionBank, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewInvalidBankError("question bank is not valid YAML", err)
	}
	converted, err := json.Marshal(doc)
	if err != nil {
		return nil, domain.NewInvalidBankError("question bank YAML has non-string keys", err)
	}
	return Parse(converted)
}

// Parse validates data against the bank schema, decodes it and checks that
// ids are unique and every showIf rule refers to a known question with a
// well-formed answer.
func Parse(data []byte) (*domain.QuestionBank, error) {
	schema, err := bankSchema()
	if err != nil {
		return nil, domain.NewInternalError("question bank schema unavailable", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewInvalidBankError("question bank is not valid JSON", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, domain.NewInvalidBankError("question bank does not match schema", err)
	}

	var bank domain.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, domain.NewInvalidBankError("failed to decode question bank", err)
	}
	if bank.Categories == nil {
		bank.Categories = map[domain.Category]string{}
	}
	if bank.Questions == nil {
		bank.Questions = []domain.Question{}
	}

	if err := checkReferences(&bank); err != nil {
		return nil, err
	}
	return &bank, nil
}

func checkReferences(bank *domain.QuestionBank) error {
	byID := make(map[string]domain.Question, len(bank.Questions))
	for _, q := range bank.Questions {
		if _, dup := byID[q.ID]; dup {
			return domain.NewInvalidBankError(fmt.Sprintf("duplicate question id %q", q.ID), nil)
		}
		byID[q.ID] = q
	}

	for _, q := range bank.Questions {
		if q.ShowIf == nil {
			continue
		}
		rules := append(append([]domain.Rule{}, q.ShowIf.Any...), q.ShowIf.All...)
		for _, r := range rules {
			target, ok := byID[r.QuestionID]
			if !ok {
				return domain.NewInvalidBankError(fmt.Sprintf("question %q: showIf refers to unknown question %q", q.ID, r.QuestionID), nil)
			}
			if target.Type == domain.QuestionTypeBool || target.Type == domain.QuestionTypeChoice {
				if !target.Accepts(r.Is) {
					return domain.NewInvalidBankError(fmt.Sprintf("question %q: showIf value %s cannot match %s question %q", q.ID, r.Is, target.Type, target.ID), nil)
				}
			}
		}
	}
	return nil
}
