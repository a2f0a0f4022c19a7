package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

func TestTagRegistry(t *testing.T) {
	r := NewTagRegistry(nil)

	assert.False(t, r.Upsert(models.SavedTag{ID: "a", PetName: "Rex"}))
	assert.False(t, r.Upsert(models.SavedTag{ID: "b", PetName: "Luna"}))
	assert.False(t, r.Upsert(models.SavedTag{ID: "c", PetName: "Milo"}))

	t.Run("Upsert Replaces In Place", func(t *testing.T) {
		assert.True(t, r.Upsert(models.SavedTag{ID: "b", PetName: "Bella"}))

		tags := r.List()
		require.Len(t, tags, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{tags[0].ID, tags[1].ID, tags[2].ID})
		assert.Equal(t, "Bella", tags[1].PetName)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.True(t, r.Delete("a"))
		assert.False(t, r.Delete("a"))

		_, ok := r.Get("a")
		assert.False(t, ok)
		got, ok := r.Get("c")
		require.True(t, ok)
		assert.Equal(t, "Milo", got.PetName)
		assert.Len(t, r.List(), 2)
	})

	t.Run("List Is A Copy", func(t *testing.T) {
		tags := r.List()
		tags[0].PetName = "changed"

		got, _ := r.Get(tags[0].ID)
		assert.NotEqual(t, "changed", got.PetName)
	})
}
