package pricing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestUnknownServiceEnvironmentNotConfiguredError(t *testing.T) {
	err := NewUnknownServiceEnvironmentNotConfiguredError("tenant")

	assert.Equal(t, `Unknown service environment not configured for "tenant"`, err.Error())
	assert.True(t, errors.Is(err, ErrUnknownServiceEnvironmentNotConfigured))
	assert.True(t, errors.Is(err, shared.ErrNotConfigured))

	wrapped := fmt.Errorf("collect tenants: %w", err)
	assert.True(t, errors.Is(wrapped, shared.ErrNotConfigured))
	assert.False(t, errors.Is(wrapped, shared.ErrNotFound))
}
