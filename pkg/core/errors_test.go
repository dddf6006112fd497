package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memorybase/memorybase-go/pkg/core"
)

func TestMemoryError(t *testing.T) {
	originalErr := errors.New("original error")
	memErr := core.NewMemoryError("test_operation", originalErr)

	assert.Error(t, memErr)
	assert.Contains(t, memErr.Error(), "memorybase:")
	assert.Contains(t, memErr.Error(), "test_operation")
	assert.Contains(t, memErr.Error(), "original error")

	var target *core.MemoryError
	if assert.True(t, errors.As(memErr, &target)) {
		assert.Equal(t, "test_operation", target.Op)
		assert.Equal(t, originalErr, target.Err)
	}
}

func TestMemoryErrorUnwrap(t *testing.T) {
	originalErr := errors.New("original error")
	memErr := core.NewMemoryError("test_operation", originalErr)

	assert.Equal(t, originalErr, errors.Unwrap(memErr))
	assert.True(t, errors.Is(memErr, originalErr))
}

func TestNewMemoryErrorNil(t *testing.T) {
	assert.NoError(t, core.NewMemoryError("op", nil))
}
