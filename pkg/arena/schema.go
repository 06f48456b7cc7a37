package arena

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	configSchemaName = "config.schema.json"
	turnSchemaName   = "turn.schema.json"

	schemaBaseURL = "https://bastion.freeeve.dev/schemas/"
)

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func loadSchemas() {
	c := jsonschema.NewCompiler()
	names := []string{configSchemaName, turnSchemaName}
	for _, name := range names {
		raw, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			schemasErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		if err := c.AddResource(schemaBaseURL+name, bytes.NewReader(raw)); err != nil {
			schemasErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
	}
	schemas = make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := c.Compile(schemaBaseURL + name)
		if err != nil {
			schemasErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		schemas[name] = s
	}
}

// validate checks a raw engine message against one of the embedded schemas.
func validate(name string, data []byte) error {
	schemasOnce.Do(loadSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := schemas[name].Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
