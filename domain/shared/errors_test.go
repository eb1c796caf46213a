package shared

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorsMatchSentinels(t *testing.T) {
	notFound := NewNotFoundError("order")
	conflict := NewConflictError("product", "product already exists: p-1")

	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.NotErrorIs(t, notFound, ErrConflict)
	assert.Equal(t, "order not found", notFound.Error())

	assert.ErrorIs(t, conflict, ErrConflict)
	var domainErr *DomainError
	require.ErrorAs(t, conflict, &domainErr)
	assert.Equal(t, "product", domainErr.Entity)
}

func TestStackStartsAtCaller(t *testing.T) {
	err := NewNotFoundError("order")

	var stacker Stacker
	require.True(t, errors.As(err, &stacker))
	stack := stacker.Stack()
	require.NotEmpty(t, stack)
	assert.LessOrEqual(t, len(stack), maxStackFrames)
	assert.True(t, strings.Contains(stack[0], "TestStackStartsAtCaller"), stack[0])
	for _, frame := range stack {
		assert.NotContains(t, frame, "runtime/")
	}
}

func TestFormatStackEmpty(t *testing.T) {
	assert.Nil(t, FormatStack(nil))
}
