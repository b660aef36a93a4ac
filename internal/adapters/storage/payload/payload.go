// Package payload encodes the item collection as the JSON array stored under a
// single key, and validates stored values before they are trusted.
package payload

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/evanschultz/prio/internal/app"
	"github.com/evanschultz/prio/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "prio://items.schema.json"

//go:embed items.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// wireItem mirrors the stored record; priority stays a raw string so legacy
// values can be normalized after validation.
type wireItem struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// Encode renders items as a JSON array. A nil slice encodes as [].
func Encode(items []domain.Item) ([]byte, error) {
	out := make([]wireItem, 0, len(items))
	for _, it := range items {
		out = append(out, wireItem{ID: it.ID, Text: it.Text, Priority: string(it.Priority)})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return raw, nil
}

// Decode parses a stored value. An empty value is an empty collection. Any
// value that is not a well-formed item array fails with app.ErrCorruptPayload.
func Decode(raw []byte) ([]domain.Item, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.Item{}, nil
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var wire []wireItem
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", app.ErrCorruptPayload, err)
	}
	items := make([]domain.Item, 0, len(wire))
	seen := make(map[int64]struct{}, len(wire))
	for idx, w := range wire {
		p, err := domain.ParsePriority(w.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: items[%d]: %v", app.ErrCorruptPayload, idx, err)
		}
		if _, ok := seen[w.ID]; ok {
			return nil, fmt.Errorf("%w: items[%d]: duplicate id %d", app.ErrCorruptPayload, idx, w.ID)
		}
		seen[w.ID] = struct{}{}
		items = append(items, domain.Item{ID: w.ID, Text: w.Text, Priority: p})
	}
	return items, nil
}

func validate(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", app.ErrCorruptPayload, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after array", app.ErrCorruptPayload)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", app.ErrCorruptPayload, schemaMessage(err))
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load items schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile items schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// schemaMessage flattens a validation error to its first leaf cause.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "#")
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
