// Package catalog provides the immutable reference table of strengths themes
// and their domains. All parsing and validation elsewhere in the importer is
// anchored to this catalog: extractors resolve raw text through Lookup, and
// stored rows reference themes by slug only.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jordanm/strengths-importer/schemas"
)

//go:embed catalog.json
var catalogJSON []byte

// ThemeDefinition describes one of the 34 themes. Definitions are reference
// data: loaded once at process start and never mutated.
type ThemeDefinition struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	DomainSlug    string   `json:"domain"`
	Description   string   `json:"description"`
	WorksWellWith []string `json:"works_well_with,omitempty"`
}

// DomainDefinition describes one of the 4 theme domains.
type DomainDefinition struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Catalog is the read-only lookup table over all theme definitions.
// It is safe for concurrent use without locking once constructed.
type Catalog struct {
	themes  []ThemeDefinition
	domains []DomainDefinition
	bySlug  map[string]int
	byKey   map[string]int // normalized name, raw lowercase name, slug
}

type catalogDocument struct {
	Domains []DomainDefinition `json:"domains"`
	Themes  []ThemeDefinition  `json:"themes"`
}

// New builds the catalog from the embedded catalog document. The document is
// validated against schemas/catalog.schema.json before use, so a bad edit to
// the reference data fails at startup rather than during an import.
func New() (*Catalog, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemas.CatalogSchema),
		gojsonschema.NewBytesLoader(catalogJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate catalog document: %w", err)
	}
	if !result.Valid() {
		var sb strings.Builder
		sb.WriteString("catalog document is invalid:")
		for _, desc := range result.Errors() {
			sb.WriteString(fmt.Sprintf(" %s: %s;", desc.Field(), desc.Description()))
		}
		return nil, fmt.Errorf("%s", sb.String())
	}

	var doc catalogDocument
	if err := json.Unmarshal(catalogJSON, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog document: %w", err)
	}

	c := &Catalog{
		themes:  doc.Themes,
		domains: doc.Domains,
		bySlug:  make(map[string]int, len(doc.Themes)),
		byKey:   make(map[string]int, len(doc.Themes)*3),
	}

	domainSlugs := make(map[string]bool, len(doc.Domains))
	for _, d := range doc.Domains {
		domainSlugs[d.Slug] = true
	}

	for i, theme := range doc.Themes {
		if !domainSlugs[theme.DomainSlug] {
			return nil, fmt.Errorf("theme %q references unknown domain %q", theme.Slug, theme.DomainSlug)
		}
		if _, exists := c.bySlug[theme.Slug]; exists {
			return nil, fmt.Errorf("duplicate theme slug %q", theme.Slug)
		}
		c.bySlug[theme.Slug] = i

		// Multiple historical spellings all resolve to one definition:
		// the normalized canonical name, the raw lowercase name, and the slug.
		c.byKey[Normalize(theme.Name)] = i
		c.byKey[strings.ToLower(theme.Name)] = i
		c.byKey[theme.Slug] = i
	}

	return c, nil
}

// Lookup resolves a raw theme string (canonical name, slug, or a cosmetic
// variant with trademark marks, hyphens, or odd casing) to its definition.
func (c *Catalog) Lookup(name string) (*ThemeDefinition, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false
	}
	if i, ok := c.byKey[strings.ToLower(trimmed)]; ok {
		return &c.themes[i], true
	}
	if i, ok := c.byKey[Normalize(trimmed)]; ok {
		return &c.themes[i], true
	}
	return nil, false
}

// LookupSlug resolves a stable slug only, with no normalization. Used at
// commit time where anything other than a known slug is a data error.
func (c *Catalog) LookupSlug(slug string) (*ThemeDefinition, bool) {
	if i, ok := c.bySlug[slug]; ok {
		return &c.themes[i], true
	}
	return nil, false
}

// Themes returns all theme definitions in catalog order.
func (c *Catalog) Themes() []ThemeDefinition {
	out := make([]ThemeDefinition, len(c.themes))
	copy(out, c.themes)
	return out
}

// Domains returns the 4 domain definitions.
func (c *Catalog) Domains() []DomainDefinition {
	out := make([]DomainDefinition, len(c.domains))
	copy(out, c.domains)
	return out
}

// Size returns the number of themes in the catalog (34 for the standard set).
func (c *Catalog) Size() int {
	return len(c.themes)
}
