package templates

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

var ErrTemplateNotFound = errors.New("template not found")

// Field describes one form field of a template and how it maps onto the
// remote group.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Global      bool   `json:"global"`
	SendToCR    bool   `json:"sendToCr"`
}

// Validate enforces the required fields at load time, so downstream code can
// rely on fully populated records instead of rechecking everywhere.
func (f Field) Validate() error {
	if f.Name == "" {
		return errors.New("field name is required")
	}
	if f.Type == "" {
		return fmt.Errorf("field %q: type is required", f.Name)
	}
	switch f.Type {
	case "text", "number", "gender", "date":
	default:
		return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
	}
	return nil
}

// Registry supplies the field list per form template.
type Registry interface {
	FieldsForTemplate(templateID string) ([]Field, error)
}

var _ Registry = (*StaticRegistry)(nil)

// StaticRegistry serves templates loaded once from a JSON file.
type StaticRegistry struct {
	templates map[string][]Field
}

// NewStaticRegistry reads and validates a template file of the shape
// {"templateID": [{"name": ..., "type": ...}, ...], ...}.
func NewStaticRegistry(path string) (*StaticRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "[NewStaticRegistry] read templates file")
	}

	var templates map[string][]Field
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, errors.Wrap(err, "[NewStaticRegistry] unmarshal templates file")
	}

	for templateID, fields := range templates {
		for _, field := range fields {
			if err := field.Validate(); err != nil {
				return nil, errors.Wrapf(err, "[NewStaticRegistry] template %q", templateID)
			}
		}
	}

	return &StaticRegistry{templates: templates}, nil
}

// NewStaticRegistryFromMap builds a registry from already-loaded templates.
func NewStaticRegistryFromMap(templates map[string][]Field) (*StaticRegistry, error) {
	for templateID, fields := range templates {
		for _, field := range fields {
			if err := field.Validate(); err != nil {
				return nil, errors.Wrapf(err, "[NewStaticRegistryFromMap] template %q", templateID)
			}
		}
	}
	return &StaticRegistry{templates: templates}, nil
}

func (r *StaticRegistry) FieldsForTemplate(templateID string) ([]Field, error) {
	fields, ok := r.templates[templateID]
	if !ok {
		return nil, errors.Wrapf(ErrTemplateNotFound, "template %q", templateID)
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out, nil
}
