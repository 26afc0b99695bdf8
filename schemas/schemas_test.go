package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestCatalogSchema_ValidJSON(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(CatalogSchema, &doc))

	assert.Equal(t, "object", doc["type"])
	required, ok := doc["required"].([]interface{})
	require.True(t, ok, "schema should declare required fields")
	assert.Contains(t, required, "themes")
	assert.Contains(t, required, "domains")
}

func TestCatalogSchema_Compiles(t *testing.T) {
	_, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(CatalogSchema))
	require.NoError(t, err)
}

func TestCatalogSchema_RejectsShortCatalog(t *testing.T) {
	doc := `{
		"domains": [
			{"name": "Executing", "slug": "executing"},
			{"name": "Influencing", "slug": "influencing"},
			{"name": "Relationship Building", "slug": "relationship-building"},
			{"name": "Strategic Thinking", "slug": "strategic-thinking"}
		],
		"themes": [
			{"name": "Achiever", "slug": "achiever", "domain": "executing", "description": "x"}
		]
	}`

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(CatalogSchema),
		gojsonschema.NewStringLoader(doc),
	)
	require.NoError(t, err)
	assert.False(t, result.Valid(), "a 1-theme catalog must fail validation")
}
