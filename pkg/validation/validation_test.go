package validation

import (
	"strings"
	"testing"

	"github.com/soundprediction/bubbles/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedTitles(t *testing.T) {
	titles := []string{
		"ab",
		"Alpha",
		"snake_case_99",
		"___",
		strings.Repeat("x", 55),
		"0123456789",
	}

	for _, title := range titles {
		t.Run(title, func(t *testing.T) {
			out, err := Validate(types.Attributes{"title": title}, true)
			require.NoError(t, err)
			assert.Equal(t, types.Attributes{"title": title}, out)
		})
	}
}

func TestValidateRejectsMalformedTitles(t *testing.T) {
	tests := []struct {
		name  string
		title any
		kind  string
	}{
		{"single char", "a", "too short"},
		{"too long", strings.Repeat("x", 56), "too long"},
		{"space", "hello world", "format"},
		{"dash", "hello-world", "format"},
		{"unicode letter", "héllo", "format"},
		{"punctuation", "ab!", "format"},
		{"not a string", 42, "format"},
		// length is checked before format
		{"short and malformed", "!", "too short"},
		{"long and malformed", strings.Repeat("!", 60), "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(types.Attributes{"title": tt.title}, true)
			require.Error(t, err)
			assert.True(t, types.IsValidation(err))
			assert.Contains(t, err.Error(), "title")
			assert.Contains(t, err.Error(), "("+tt.kind+")")
			assert.Contains(t, err.Error(), "Requirements: 2-55 characters")
		})
	}
}

func TestValidateMissingTitle(t *testing.T) {
	for _, attrs := range []types.Attributes{{}, {"title": ""}, {"title": nil}} {
		_, err := Validate(attrs, true)
		require.Error(t, err)
		assert.True(t, types.IsValidation(err))
		assert.Equal(t, "Missing title (required).", err.Error())

		out, err := Validate(attrs, false)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

func TestValidateDropsUnknownFields(t *testing.T) {
	out, err := Validate(types.Attributes{"title": "Alpha", "color": "red", "admin": true}, true)
	require.NoError(t, err)
	assert.Equal(t, types.Attributes{"title": "Alpha"}, out)

	out, err = Validate(types.Attributes{"color": "red"}, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestValidatePartialStillChecksPresentFields(t *testing.T) {
	_, err := Validate(types.Attributes{"title": "a b"}, false)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestCustomRules(t *testing.T) {
	v := New([]Rule{{Field: "name", MinLength: 3, Requirement: "at least 3 characters."}})

	_, err := v.Validate(types.Attributes{"name": "ab"}, true)
	require.Error(t, err)
	assert.Equal(t, "Invalid name (too short). Requirements: at least 3 characters.", err.Error())

	out, err := v.Validate(types.Attributes{"name": "a b c", "title": "x"}, true)
	require.NoError(t, err)
	assert.Equal(t, types.Attributes{"name": "a b c"}, out)
}
