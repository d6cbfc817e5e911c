package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"model.dae", "dae"},
		{"dir/model.dae", "dae"},
		{"model.dae.bak", "bak"},
		{"model.DAE", "DAE"},
		{"model", ""},
		{".dae", ""},
		{".hidden.dae", "dae"},
		{"model.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.name))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("a/b/test.dae", "dae"))
	assert.False(t, Matches("test.DAE", "dae"))
	assert.False(t, Matches("test.dae.bak", "dae"))
	assert.False(t, Matches("test", "dae"))
}

func TestNormalizeExtension(t *testing.T) {
	assert.Equal(t, "dae", NormalizeExtension("dae"))
	assert.Equal(t, "dae", NormalizeExtension(".dae"))
	assert.Equal(t, "dae", NormalizeExtension("  .dae "))
	assert.Equal(t, "", NormalizeExtension("."))
}
