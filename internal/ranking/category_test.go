package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCategories(t *testing.T) {
	d := DefaultCategories()
	assert.Equal(t, []string{"bar", "cafe", "restaurant"}, d.Slice())

	// Each call returns an independent set.
	d.Toggle("bar")
	assert.True(t, DefaultCategories().Has("bar"))
}

func TestCategorySet_Toggle(t *testing.T) {
	s := NewCategorySet("cafe")
	s.Toggle("bar")
	assert.True(t, s.Has("bar"))
	s.Toggle("cafe")
	assert.False(t, s.Has("cafe"))
	assert.Equal(t, 1, s.Len())
}

func TestCategorySet_Equal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     CategorySet
		expected bool
	}{
		{"same tags different order", NewCategorySet("bar", "cafe"), NewCategorySet("cafe", "bar"), true},
		{"subset", NewCategorySet("bar"), NewCategorySet("cafe", "bar"), false},
		{"disjoint same size", NewCategorySet("bar"), NewCategorySet("cafe"), false},
		{"both empty", NewCategorySet(), CategorySet(nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
		})
	}
}

func TestCategorySet_Clone(t *testing.T) {
	s := NewCategorySet("cafe", " ", "")
	c := s.Clone()
	c.Toggle("bar")
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Cafe", Label("cafe"))
	assert.Equal(t, "Night Club", Label("night_club"))
	assert.Equal(t, "Shopping Mall", Label("shopping_mall"))
}
