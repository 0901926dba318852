package adapter

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "bigquery",
		Available: []string{"snowflake"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "bigquery")
	assert.Contains(t, msg, "[snowflake]")
	assert.Contains(t, msg, "credentials.yaml")
}

func TestRegistry(t *testing.T) {
	Register("test_registry_adapter", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_registry_adapter"))
	assert.False(t, IsRegistered("never_registered"))

	factory, ok := Get("test_registry_adapter")
	require.True(t, ok)
	assert.NotNil(t, factory)

	assert.Contains(t, ListAdapters(), "test_registry_adapter")
	assert.IsNonDecreasing(t, ListAdapters())
}

func TestNewAdapter(t *testing.T) {
	t.Run("empty type", func(t *testing.T) {
		_, err := NewAdapter(Config{}, nil)
		require.Error(t, err)
		assert.Equal(t, "adapter type not specified", err.Error())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewAdapter(Config{Type: "bigquery"}, nil)
		var unknown *UnknownAdapterError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "bigquery", unknown.Type)
	})

	t.Run("registered type receives logger", func(t *testing.T) {
		var got *slog.Logger
		Register("test_logger_adapter", func(l *slog.Logger) Adapter {
			got = l
			return nil
		})
		logger := slog.New(slog.DiscardHandler)

		_, err := NewAdapter(Config{Type: "test_logger_adapter"}, logger)
		require.NoError(t, err)
		assert.Same(t, logger, got)
	})
}
