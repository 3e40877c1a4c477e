package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmd/internal/core"
	"fmd/internal/domain"
)

func TestParseDependency(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     domain.Dependency
		wantSkip bool
	}{
		{"plain", "flib", domain.Dependency{Name: "flib"}, false},
		{"version constraint", "flib >= 0.16.0", domain.Dependency{Name: "flib"}, false},
		{"constraint no spaces", "flib>=0.16.0", domain.Dependency{Name: "flib"}, false},
		{"less than", "flib < 1.0", domain.Dependency{Name: "flib"}, false},
		{"exact pin", "flib = 0.16.3", domain.Dependency{Name: "flib"}, false},
		{"optional", "? flib", domain.Dependency{Name: "flib", Optional: true}, false},
		{"optional no space", "?flib", domain.Dependency{Name: "flib", Optional: true}, false},
		{"hidden optional", "(?) flib", domain.Dependency{Name: "flib", Optional: true}, false},
		{"no load order", "~ flib", domain.Dependency{Name: "flib"}, false},
		{"optional no load order", "? ~ flib", domain.Dependency{Name: "flib", Optional: true}, false},
		{"optional with constraint", "? flib >= 0.16.0", domain.Dependency{Name: "flib", Optional: true}, false},
		{"surrounding whitespace", "  flib  ", domain.Dependency{Name: "flib"}, false},
		{"incompatible", "! conflicting-mod", domain.Dependency{}, true},
		{"incompatible no space", "!conflicting-mod", domain.Dependency{}, true},
		{"base", "base >= 2.0", domain.Dependency{}, true},
		{"expansion", "space-age", domain.Dependency{}, true},
		{"empty", "", domain.Dependency{}, true},
		{"whitespace only", "   ", domain.Dependency{}, true},
		{"bare operator", ">= 1.0", domain.Dependency{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := core.ParseDependency(tt.raw)
			if tt.wantSkip {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDependencies(t *testing.T) {
	raw := []string{
		"base >= 2.0",
		"alpha",
		"? beta >= 1.0",
		"! gamma",
		"(?) delta",
		"~ epsilon",
	}

	got := core.ParseDependencies(raw)
	assert.Equal(t, []domain.Dependency{
		{Name: "alpha"},
		{Name: "beta", Optional: true},
		{Name: "delta", Optional: true},
		{Name: "epsilon"},
	}, got)
}
