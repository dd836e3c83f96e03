package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)

	assert.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err, "trace ID is hex")
	assert.Empty(t, GetTraceID(ctx), "original context is unchanged")
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(ctx)))
}

func TestGetTraceID_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestAdminLogin(t *testing.T) {
	_, ok := AdminLogin(context.Background())
	assert.False(t, ok)

	login, ok := AdminLogin(WithAdminLogin(context.Background(), "admin"))
	assert.True(t, ok)
	assert.Equal(t, "admin", login)

	_, ok = AdminLogin(WithAdminLogin(context.Background(), ""))
	assert.False(t, ok)
}
