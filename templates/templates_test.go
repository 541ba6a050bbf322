package templates_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lexo-ch/lexo-forms-sub000/templates"
	"github.com/stretchr/testify/require"
)

func writeTemplatesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestStaticRegistryLoadsAndServesFields(t *testing.T) {
	path := writeTemplatesFile(t, `{
		"contact": [
			{"name": "email", "type": "text", "sendToCr": true},
			{"name": "firstname", "type": "text", "description": "First name", "sendToCr": true},
			{"name": "message", "type": "text", "sendToCr": false}
		]
	}`)

	registry, err := templates.NewStaticRegistry(path)
	require.NoError(t, err)

	fields, err := registry.FieldsForTemplate("contact")
	require.NoError(t, err)
	require.Len(t, fields, 3)
	require.Equal(t, "firstname", fields[1].Name)
	require.True(t, fields[1].SendToCR)
}

func TestStaticRegistryUnknownTemplate(t *testing.T) {
	path := writeTemplatesFile(t, `{"contact": []}`)

	registry, err := templates.NewStaticRegistry(path)
	require.NoError(t, err)

	_, err = registry.FieldsForTemplate("missing")
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)
}

func TestStaticRegistryRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", `{"contact": [{"type": "text"}]}`},
		{"missing type", `{"contact": [{"name": "firstname"}]}`},
		{"unknown type", `{"contact": [{"name": "firstname", "type": "blob"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemplatesFile(t, tt.content)
			_, err := templates.NewStaticRegistry(path)
			require.Error(t, err)
		})
	}
}

func TestFieldsForTemplateReturnsCopy(t *testing.T) {
	registry, err := templates.NewStaticRegistryFromMap(map[string][]templates.Field{
		"contact": {{Name: "email", Type: "text", SendToCR: true}},
	})
	require.NoError(t, err)

	fields, err := registry.FieldsForTemplate("contact")
	require.NoError(t, err)
	fields[0].Name = "mutated"

	again, err := registry.FieldsForTemplate("contact")
	require.NoError(t, err)
	require.Equal(t, "email", again[0].Name)
}
