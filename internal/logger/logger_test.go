package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextValues(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "", GetUserID(context.Background()))
	assert.NotNil(t, FromContext(ctx))
}

func TestInit_WithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	require.NoError(t, Init("production", Options{File: file, MaxAgeDays: 1}))
	Info("file logger ready", "test", t.Name())

	_, err := os.Stat(filepath.Dir(file))
	assert.NoError(t, err)
}
