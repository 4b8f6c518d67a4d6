package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title    string `json:"title" validate:"required,max=5"`
	Email    string `json:"email" validate:"omitempty,email"`
	Template string `json:"template" validate:"omitempty,file"`
	Ignored  string `json:"-" validate:"omitempty,min=2"`
}

func TestValidator_Struct(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "deck.tmpl")
	require.NoError(t, os.WriteFile(templatePath, []byte("x"), 0644))

	tests := []struct {
		name      string
		input     sample
		wantError []string
	}{
		{
			name:  "valid",
			input: sample{Title: "abc", Email: "me@example.com", Template: templatePath},
		},
		{
			name:      "missing required field",
			input:     sample{},
			wantError: []string{"title is a required field"},
		},
		{
			name:  "multiple violations are joined",
			input: sample{Title: "too long", Email: "nope"},
			wantError: []string{
				"title must be a maximum of 5 characters in length",
				"email must be a valid email address",
			},
		},
		{
			name:      "directory is not a file",
			input:     sample{Title: "abc", Template: dir},
			wantError: []string{"template must be an existing and readable file"},
		},
	}

	v, err := New("json")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if len(tt.wantError) == 0 {
				assert.NoError(t, err)
				return
			}

			var validationErr *Error
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantError, validationErr.Messages)
		})
	}
}
