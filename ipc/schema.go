package ipc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// protocol lists every payload by its envelope type.
type protocol struct {
	Hello       HelloMessage       `json:"hello"`
	Ack         AckMessage         `json:"ack"`
	Observation ObservationMessage `json:"observation"`
	Actions     ActionsMessage     `json:"actions"`
}

// Schema describes the envelope payloads for host implementers.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(protocol))
	schema.Title = "swarm wire protocol"
	schema.Description = "Payloads carried in the data field of each envelope, keyed by envelope type"
	return schema
}

// WriteSchema writes Schema as indented JSON, replacing outPath atomically.
func WriteSchema(outPath string) error {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
