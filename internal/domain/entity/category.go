package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategorySlugAll selects every category in a catalog filter.
const CategorySlugAll = "all"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Category groups products for browsing.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Slug returns the URL form of the category name: lower case, whitespace runs replaced by '-'.
func (c *Category) Slug() string {
	return Slugify(c.Name)
}

// Slugify lower-cases s and replaces each run of whitespace with a single hyphen.
func Slugify(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
}
