package ui_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botctl/botctl/pkg/ui"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		name     string
		format   ui.Format
		expected string
	}{
		{
			name:     "auto format",
			format:   ui.FormatAuto,
			expected: "auto",
		},
		{
			name:     "terminal format",
			format:   ui.FormatTerminal,
			expected: "term",
		},
		{
			name:     "text format",
			format:   ui.FormatText,
			expected: "text",
		},
		{
			name:     "json format",
			format:   ui.FormatJSON,
			expected: "json",
		},
		{
			name:     "unknown format",
			format:   ui.Format(999),
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{
			name:     "parse auto",
			input:    "auto",
			expected: ui.FormatAuto,
		},
		{
			name:     "parse empty string as auto",
			input:    "",
			expected: ui.FormatAuto,
		},
		{
			name:     "parse term",
			input:    "term",
			expected: ui.FormatTerminal,
		},
		{
			name:     "parse terminal",
			input:    "terminal",
			expected: ui.FormatTerminal,
		},
		{
			name:     "parse text",
			input:    "text",
			expected: ui.FormatText,
		},
		{
			name:     "parse plain",
			input:    "plain",
			expected: ui.FormatText,
		},
		{
			name:     "parse json",
			input:    "json",
			expected: ui.FormatJSON,
		},
		{
			name:     "parse uppercase term",
			input:    "TERM",
			expected: ui.FormatTerminal,
		},
		{
			name:    "parse invalid format",
			input:   "invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "unknown format")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, format)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Run("NO_COLOR forces text", func(t *testing.T) {
		t.Setenv("BOTCTL_FORMAT", "")
		t.Setenv("NO_COLOR", "1")

		r, w, err := os.Pipe()
		require.NoError(t, err)
		defer func() {
			_ = r.Close()
			_ = w.Close()
		}()

		assert.Equal(t, ui.FormatText, ui.DetectFormat(w))
	})

	t.Run("non-terminal output is text", func(t *testing.T) {
		t.Setenv("BOTCTL_FORMAT", "")
		t.Setenv("NO_COLOR", "")

		// A pipe is not a terminal, so detection falls back to text
		r, w, err := os.Pipe()
		require.NoError(t, err)
		defer func() {
			_ = r.Close()
			_ = w.Close()
		}()

		assert.Equal(t, ui.FormatText, ui.DetectFormat(w))
	})

	t.Run("BOTCTL_FORMAT wins over detection", func(t *testing.T) {
		t.Setenv("BOTCTL_FORMAT", "json")
		t.Setenv("NO_COLOR", "")

		// The pipe would normally force text
		r, w, err := os.Pipe()
		require.NoError(t, err)
		defer func() {
			_ = r.Close()
			_ = w.Close()
		}()

		assert.Equal(t, ui.FormatJSON, ui.DetectFormat(w))
	})

	t.Run("invalid BOTCTL_FORMAT falls back to detection", func(t *testing.T) {
		t.Setenv("BOTCTL_FORMAT", "bogus")
		t.Setenv("NO_COLOR", "")

		r, w, err := os.Pipe()
		require.NoError(t, err)
		defer func() {
			_ = r.Close()
			_ = w.Close()
		}()

		assert.Equal(t, ui.FormatText, ui.DetectFormat(w))
	})
}
