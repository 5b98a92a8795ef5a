package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBase = "https://chronorogue.invalid/schemas/"

// inbound maps client message types to their schema file.
var inbound = map[string]string{
	TypeHello: "hello.schema.json",
	TypeAct:   "act.schema.json",
	TypeJoin:  "join.schema.json",
}

// Validator checks inbound frames against the embedded schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every inbound schema.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	for _, name := range inbound {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(inbound))}
	for typ, name := range inbound {
		s, err := c.Compile(schemaBase + name)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		v.schemas[typ] = s
	}
	return v, nil
}

// Validate routes raw by its type and validates it. The returned base is
// valid only when err is nil.
func (v *Validator) Validate(raw []byte) (BaseMessage, error) {
	base, err := DecodeBase(raw)
	if err != nil {
		return base, fmt.Errorf("bad json: %w", err)
	}
	s, ok := v.schemas[base.Type]
	if !ok {
		return base, fmt.Errorf("unknown message type %q", base.Type)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return base, fmt.Errorf("bad json: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return base, fmt.Errorf("%s: %w", base.Type, err)
	}
	return base, nil
}
