package services

import (
	"go.uber.org/zap"

	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

// TagRegistry holds saved tag designs for the lifetime of the process.
type TagRegistry struct {
	tags   []models.SavedTag
	logger *zap.Logger
}

func NewTagRegistry(logger *zap.Logger) *TagRegistry {
	return &TagRegistry{logger: orNop(logger)}
}

// Upsert replaces the tag with the same id in place, or appends it.
// It reports whether an existing tag was replaced.
func (r *TagRegistry) Upsert(tag models.SavedTag) bool {
	for i := range r.tags {
		if r.tags[i].ID == tag.ID {
			r.tags[i] = tag
			r.logger.Debug("saved tag replaced", zap.String("tag_id", tag.ID))
			return true
		}
	}
	r.tags = append(r.tags, tag)
	r.logger.Debug("saved tag added", zap.String("tag_id", tag.ID))
	return false
}

// Delete removes the tag with id; it reports whether one was removed.
func (r *TagRegistry) Delete(id string) bool {
	for i := range r.tags {
		if r.tags[i].ID == id {
			r.tags = append(r.tags[:i:i], r.tags[i+1:]...)
			return true
		}
	}
	return false
}

func (r *TagRegistry) Get(id string) (models.SavedTag, bool) {
	for _, t := range r.tags {
		if t.ID == id {
			return t, true
		}
	}
	return models.SavedTag{}, false
}

// List returns the tags in insertion order.
func (r *TagRegistry) List() []models.SavedTag {
	return append([]models.SavedTag{}, r.tags...)
}
