package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "tile-1", false},
		{"path style", "grid/row_2/tile.3", false},
		{"namespaced", "nav:home", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"spaces inside", "tile 1", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id, "id")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGroup(t *testing.T) {
	assert.NoError(t, ValidateGroup("content"))
	assert.NoError(t, ValidateGroup("side_panel-2"))
	assert.Error(t, ValidateGroup(""))
	assert.Error(t, ValidateGroup("side panel"))
	assert.Error(t, ValidateGroup("grid/1"))
	assert.Error(t, ValidateGroup(strings.Repeat("g", MaxGroupLength+1)))
}

func TestValidateRoute(t *testing.T) {
	assert.NoError(t, ValidateRoute("/settings"))
	assert.Error(t, ValidateRoute(""))
	assert.Error(t, ValidateRoute("/a\n/b"))
}
