package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Kitchen", "kitchen"},
		{"Home Decor", "home-decor"},
		{"Bed  and\tBath", "bed-and-bath"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.name))
		})
	}
}

func TestCategory_Slug(t *testing.T) {
	c := &Category{Name: "Table Linen"}

	assert.Equal(t, "table-linen", c.Slug())
}
