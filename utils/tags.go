package utils

import (
	"strings"

	"fbs/models"

	"gorm.io/gorm"
)

// NormalizeTag trims and lower-cases a tag label.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetOrCreateTags resolves free-text labels into shared Tag rows. Inputs are
// normalized, empties skipped, duplicates collapsed.
func GetOrCreateTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool)
	var tags []models.Tag

	for _, raw := range names {
		name := NormalizeTag(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		if err := db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}
