// Package attrschema optionally JSON-Schema-validates a ZCL attribute write
// payload before it reaches the wire, keyed by (cluster, attribute) rather
// than by device as the teacher's pkg/device/schema does -- this rewrite
// validates attribute writes, not whole-device state blobs.
package attrschema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"homai-zigbee/internal/ids"
)

type attrKey struct {
	cluster ids.ClusterID
	attr    ids.AttributeID
}

// Validator validates attribute-write values against registered JSON
// Schema documents, caching compiled schemas keyed by their raw bytes
// exactly as the teacher's device-state validator does.
type Validator struct {
	mu     sync.RWMutex
	cache  map[string]*jsonschema.Schema
	byAttr map[attrKey]string // attrKey -> raw schema document, for lookup
}

// NewValidator creates a Validator with no registered schemas: every write
// passes until one is registered for its (cluster, attribute) pair.
func NewValidator() *Validator {
	return &Validator{
		cache:  make(map[string]*jsonschema.Schema),
		byAttr: make(map[attrKey]string),
	}
}

// RegisterSchema associates schemaDoc with every future write to
// (cluster, attr). An empty or "null" document clears any prior
// registration, reverting to no validation.
func (v *Validator) RegisterSchema(cluster ids.ClusterID, attr ids.AttributeID, schemaDoc json.RawMessage) error {
	key := attrKey{cluster, attr}
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(schemaDoc) == 0 || string(schemaDoc) == "null" {
		delete(v.byAttr, key)
		return nil
	}
	if _, err := v.compileLocked(schemaDoc); err != nil {
		return fmt.Errorf("register schema for cluster %#04x attribute %#04x: %w", cluster.Uint16(), attr.Uint16(), err)
	}
	v.byAttr[key] = string(schemaDoc)
	return nil
}

// ValidateAttributeWrite validates value against the schema registered for
// (cluster, attr), if any. No registered schema means no validation.
func (v *Validator) ValidateAttributeWrite(cluster ids.ClusterID, attr ids.AttributeID, value any) error {
	v.mu.RLock()
	doc, ok := v.byAttr[attrKey{cluster, attr}]
	v.mu.RUnlock()
	if !ok {
		return nil
	}

	compiled, err := v.compile([]byte(doc))
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return compiled.Validate(value)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.compileLocked(schemaDoc)
}

func (v *Validator) compileLocked(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)
	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
