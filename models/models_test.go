package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestParseView(t *testing.T) {
	v, err := ParseView("checkout")
	require.NoError(t, err)
	assert.Equal(t, ViewCheckout, v)
	assert.True(t, v.Protected())
	assert.False(t, ViewCart.Protected())

	_, err = ParseView("favorites")
	assert.Error(t, err)
}

func TestCandidateClassification(t *testing.T) {
	assert.True(t, Candidate{ID: "mock-1"}.IsTemplate())
	assert.False(t, Candidate{ID: "mock-"}.IsTemplate())
	assert.False(t, Candidate{ID: "circle-1700000000"}.IsTemplate())
	assert.False(t, Candidate{}.IsTemplate())

	assert.Equal(t, "bonetag", Candidate{ImageURL: "bonetag"}.Preview())
	assert.Equal(t, "a.png", Candidate{ImagePreview: "a.png", ImageURL: "bonetag"}.Preview())
	assert.Equal(t, "Buddy", Candidate{Name: "Classic Paw Tag", PetName: "Buddy"}.DisplayName())
}

func TestItemLabels(t *testing.T) {
	tmpl := &TemplateItem{Line: Line{ID: "mock-1", Name: "Classic Paw Tag"}, CatalogID: "mock-1"}
	custom := &CustomItem{Line: Line{ID: "custom-1", Name: "Adventure Bone Tag"}, PetName: "Rex", Shape: "bone"}

	assert.Equal(t, "Template", tmpl.Label())
	assert.Equal(t, "Classic Paw Tag", tmpl.DisplayName())
	assert.Equal(t, "Custom Tag - Bone", custom.Label())
	assert.Equal(t, "Rex", custom.DisplayName())
	assert.Equal(t, "Custom Tag - Circle", (&CustomItem{}).Label())
	assert.Equal(t, "Custom Tag - Étoile", (&CustomItem{Shape: "étoile"}).Label())
}

func TestPatchApply(t *testing.T) {
	item := &CustomItem{Line: Line{ID: "custom-1", Name: "Tag", Price: 199, Quantity: 1, ImagePreview: "old"}, PetName: "Rex"}

	require.NoError(t, ItemPatch{ID: "custom-1", PetName: ptr("Max"), ImageURL: ptr("new-url")}.Apply(item))
	assert.Equal(t, "Max", item.PetName)
	assert.Equal(t, "new-url", item.ImagePreview)
	assert.Equal(t, 199.0, item.Price)

	require.NoError(t, ItemPatch{ID: "custom-1", ImagePreview: ptr("explicit"), ImageURL: ptr("ignored")}.Apply(item))
	assert.Equal(t, "explicit", item.ImagePreview)

	tmpl := &TemplateItem{Line: Line{ID: "mock-1"}, CatalogID: "mock-1"}
	assert.Error(t, ItemPatch{ID: "mock-1", PetName: ptr("Max")}.Apply(tmpl))
}

func TestCloneIsIndependent(t *testing.T) {
	orig := &CustomItem{Line: Line{ID: "custom-1", Price: 10}}
	cp := Clone(orig).(*CustomItem)
	cp.Price = 20
	assert.Equal(t, 10.0, orig.Price)
	assert.Nil(t, Clone(nil))
}

func TestCartCodecRoundTrip(t *testing.T) {
	items := []CartItem{
		&TemplateItem{Line: Line{ID: "mock-1", Name: "Classic Paw Tag", Price: 19.99, Quantity: 1, ImagePreview: "circletag"}, CatalogID: "mock-1"},
		&CustomItem{Line: Line{ID: "custom-1-abc", Name: "Adventure Bone Tag", Price: 249, Quantity: 1}, PetName: "Rex", PhoneNumber: "555", Color: "#f97316", Shape: "bone"},
	}

	data, err := EncodeCart(items)
	require.NoError(t, err)
	decoded, err := DecodeCart(data)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestDecodeCart(t *testing.T) {
	t.Run("legacy records without kind", func(t *testing.T) {
		items, err := DecodeCart([]byte(`[{"id":"mock-2","name":"Adventure Bone Tag","price":24.99,"imageUrl":"bonetag"},{"id":"custom-1","petName":"Rex"}]`))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, KindTemplate, items[0].Kind())
		assert.Equal(t, "bonetag", items[0].Base().ImagePreview)
		assert.Equal(t, "mock-2", items[0].(*TemplateItem).CatalogID)
		assert.Equal(t, KindCustom, items[1].Kind())
		assert.Equal(t, 1, items[1].Base().Quantity)
	})

	malformed := map[string]string{
		"single record": `{"id":"mock-1"}`,
		"null":          `null`,
		"garbage":       `not json`,
		"missing id":    `[{"name":"x"}]`,
		"duplicate id":  `[{"id":"a"},{"id":"a"}]`,
		"unknown kind":  `[{"id":"a","kind":"gift"}]`,
	}
	for name, raw := range malformed {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCart([]byte(raw))
			assert.Error(t, err)
		})
	}

	items, err := DecodeCart([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLinePriceOr(t *testing.T) {
	assert.Equal(t, DefaultPrice, Line{}.PriceOr(DefaultPrice))
	assert.Equal(t, 199.0, Line{Price: 199}.PriceOr(DefaultPrice))
}
