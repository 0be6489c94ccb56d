package execx_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/botctl/botctl/pkg/execx"
)

func TestExitCode(t *testing.T) {
	assert.True(t, execx.ExitCode(0).IsSuccess())
	assert.False(t, execx.ExitCode(1).IsSuccess())
	assert.Equal(t, "42", execx.ExitCode(42).String())
}

func TestExitError(t *testing.T) {
	t.Run("message from wrapped error", func(t *testing.T) {
		inner := errors.New("bot crashed")
		err := execx.NewExitError(2, inner)
		assert.Equal(t, "bot crashed", err.Error())
		assert.Equal(t, inner, err.Unwrap())
	})

	t.Run("message from code alone", func(t *testing.T) {
		err := execx.NewExitError(7, nil)
		assert.Equal(t, "exit status 7", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want execx.ExitCode
	}{
		{"nil error", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"exit error", execx.NewExitError(42, nil), 42},
		{"wrapped exit error", fmt.Errorf("running: %w", execx.NewExitError(3, nil)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, execx.ExitCodeFromError(tt.err))
		})
	}
}
