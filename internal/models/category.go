package models

import "strings"

// Category is a deduplicated free-text label on transactions. Rows are
// created lazily when a transaction first references a name and deleted when
// no transaction references them anymore.
type Category struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:50;not null"`
	NormalizedName string `gorm:"size:50;uniqueIndex;not null"`
}

// NormalizeCategoryName produces the lookup key for a category name:
// trimmed, inner whitespace collapsed, lower-cased. An empty result means
// "no category".
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
