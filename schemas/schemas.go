// Package schemas holds the JSON Schema documents that structured data
// artifacts are validated against.
package schemas

import _ "embed"

// CatalogSchema is the schema for the embedded theme catalog document.
//
//go:embed catalog.schema.json
var CatalogSchema []byte
