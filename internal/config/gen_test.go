package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencil-tools/stencil/internal/schema"
)

func intPtr(n int) *int { return &n }

func TestGenerate_RoundTrip(t *testing.T) {
	cfg := &ResourceConfig{
		Slug:        "hero",
		Name:        "Hero Banner",
		Description: "A full-width hero",
		Category:    "headers",
		Tags:        []string{"hero", "banner"},
		Pricing:     Pricing{Model: "paid", Price: 9.99, Currency: "USD"},
		Schema: schema.Schema{
			{Key: "title", Type: schema.TypeSingleLine, Label: "Title", Required: true},
			{Key: "subtitle", Type: schema.TypeSingleLine, Default: "Welcome"},
			{Key: "theme", Type: schema.TypeSelect, Options: []string{"light", "dark"}},
			{Key: "items", Type: schema.TypeRepeater, MinItems: intPtr(0), MaxItems: intPtr(6),
				Nested: schema.Schema{
					{Key: "label", Type: schema.TypeSingleLine},
					{Key: "link", Type: schema.TypeLink},
				}},
		},
	}

	src, err := Generate(KindBlock, cfg)
	require.NoError(t, err)

	tmpDir := t.TempDir()
	err = os.WriteFile(filepath.Join(tmpDir, FileName), src, 0644)
	require.NoError(t, err)

	loaded, err := LoadResource(tmpDir, KindBlock)
	require.NoError(t, err)

	assert.Equal(t, cfg.Slug, loaded.Slug)
	assert.Equal(t, cfg.Name, loaded.Name)
	assert.Equal(t, cfg.Description, loaded.Description)
	assert.Equal(t, cfg.Category, loaded.Category)
	assert.Equal(t, cfg.Tags, loaded.Tags)
	assert.Equal(t, cfg.Pricing, loaded.Pricing)

	require.Equal(t, cfg.Schema.Keys(), loaded.Schema.Keys())
	assert.True(t, loaded.Schema.Get("title").Required)
	assert.Equal(t, "Welcome", loaded.Schema.Get("subtitle").Default)
	assert.Equal(t, []string{"light", "dark"}, loaded.Schema.Get("theme").Options)

	items := loaded.Schema.Get("items")
	require.NotNil(t, items.MinItems)
	assert.Equal(t, 0, *items.MinItems)
	require.NotNil(t, items.MaxItems)
	assert.Equal(t, 6, *items.MaxItems)
	assert.Equal(t, []string{"label", "link"}, items.Nested.Keys())
}

func TestGenerate_FreePricingOmitted(t *testing.T) {
	cfg := &ResourceConfig{
		Slug:    "simple",
		Pricing: DefaultPricing(),
	}

	src, err := Generate(KindTemplate, cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(src), "pricing")
	assert.Contains(t, string(src), `template "simple"`)
}

func TestGenerate_UnknownKind(t *testing.T) {
	_, err := Generate("widget", &ResourceConfig{Slug: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown resource kind "widget"`)
}

func TestGenerate_DefaultValueTypes(t *testing.T) {
	cfg := &ResourceConfig{
		Slug: "card",
		Schema: schema.Schema{
			{Key: "count", Type: schema.TypeNumber, Default: int64(3)},
			{Key: "visible", Type: schema.TypeBoolean, Default: true},
			{Key: "tags", Type: schema.TypeMultiSelect, Default: []any{"a", "b"}},
		},
	}

	src, err := Generate(KindBlock, cfg)
	require.NoError(t, err)

	tmpDir := t.TempDir()
	err = os.WriteFile(filepath.Join(tmpDir, FileName), src, 0644)
	require.NoError(t, err)

	loaded, err := LoadResource(tmpDir, KindBlock)
	require.NoError(t, err)
	assert.Equal(t, int64(3), loaded.Schema.Get("count").Default)
	assert.Equal(t, true, loaded.Schema.Get("visible").Default)
	assert.Equal(t, []any{"a", "b"}, loaded.Schema.Get("tags").Default)
}
