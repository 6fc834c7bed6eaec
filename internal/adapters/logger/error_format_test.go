package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vgren/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{
			name:         "standard error",
			err:          errors.New("plain"),
			wantMessages: []string{"plain"},
		},
		{
			name:         "zerr chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("root"), "middle"), "outer"),
			wantMessages: []string{"outer", "middle", "root"},
		},
		{
			name:         "joined branches keep their order",
			err:          errors.Join(zerr.New("sentinel"), zerr.Wrap(errors.New("cause"), "detail")),
			wantMessages: []string{"sentinel", "detail", "cause"},
		},
		{
			name:         "joined error below a wrap",
			err:          zerr.Wrap(errors.Join(errors.New("a"), errors.New("b")), "load failed"),
			wantMessages: []string{"load failed", "a", "b"},
		},
		{
			name:         "nil",
			err:          nil,
			wantMessages: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)

			messages := make([]string, 0, len(entries))
			for _, e := range entries {
				messages = append(messages, e.Message)
			}
			if tt.wantMessages == nil {
				assert.Empty(t, messages)
				return
			}
			assert.Equal(t, tt.wantMessages, messages)
		})
	}
}

func TestCollectErrorEntries_Metadata(t *testing.T) {
	err := zerr.With(zerr.Wrap(errors.New("exit status 2"), "gren make exited"), "cwd", "/app")

	entries := logger.CollectErrorEntries(err)

	assert.Len(t, entries, 2)
	assert.Equal(t, "/app", entries[0].Metadata["cwd"])
	assert.Nil(t, entries[1].Metadata)
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single"}},
			want:    "Error: single",
		},
		{
			name:    "cause chain",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}, {Message: "root"}},
			want:    "Error: outer\n\n  Caused by:\n    → inner\n    → root",
		},
		{
			name: "multiline compiler diagnostics",
			entries: []logger.ErrorEntry{
				{Message: "compilation failed"},
				{Message: "Compilation failed\n-- NAMING ERROR"},
			},
			want: "Error: compilation failed\n\n  Caused by:\n    → Compilation failed\n      -- NAMING ERROR",
		},
		{
			name: "metadata sorted by key",
			entries: []logger.ErrorEntry{
				{Message: "error", Metadata: map[string]any{"b": 2, "a": "x"}},
			},
			want: "Error: error\n       a: x\n       b: 2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
