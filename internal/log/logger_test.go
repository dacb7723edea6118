package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_ReplacesGlobal(t *testing.T) {
	l, err := Init(false)
	require.NoError(t, err)
	require.Same(t, l, L())
}

func TestWithDD_NoSpan(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := WithDD(context.Background(), zap.New(core), zap.String("k", "v"))
	l.Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "v", entries[0].ContextMap()["k"])
	_, has := entries[0].ContextMap()["dd.trace_id"]
	require.False(t, has)
}
