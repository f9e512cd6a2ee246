package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	paths, ok := parsed["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/geocode", "/reverse-geocode", "/candidates", "/map"} {
		assert.Contains(t, paths, p)
	}
}

func TestSwaggerDocReferencesResolve(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	definitions, ok := parsed["definitions"].(map[string]any)
	require.True(t, ok)

	var refs []string
	var walk func(v any)
	walk = func(v any) {
		switch node := v.(type) {
		case map[string]any:
			for key, child := range node {
				if ref, ok := child.(string); ok && key == "$ref" {
					refs = append(refs, ref)
					continue
				}
				walk(child)
			}
		case []any:
			for _, child := range node {
				walk(child)
			}
		}
	}
	walk(parsed)

	require.NotEmpty(t, refs)
	for _, ref := range refs {
		name := strings.TrimPrefix(ref, "#/definitions/")
		assert.Contains(t, definitions, name, "unresolved reference %s", ref)
	}

	errorSchema, ok := definitions["handler.errorResponse"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errorSchema["properties"], "error")
}
