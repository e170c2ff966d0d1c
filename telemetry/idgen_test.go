package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsHonorsPresetTraceID(t *testing.T) {
	hexID := "0123456789abcdef0123456789abcdef"
	ctx := WithTraceID(context.Background(), hexID)

	gen := newIDGenerator()
	tid, sid := gen.NewIDs(ctx)

	assert.Equal(t, hexID, tid.String())
	assert.True(t, sid.IsValid())
}

func TestNewIDsRandomWithoutPreset(t *testing.T) {
	gen := newIDGenerator()

	tid1, _ := gen.NewIDs(context.Background())
	tid2, _ := gen.NewIDs(context.Background())

	require.True(t, tid1.IsValid())
	require.True(t, tid2.IsValid())
	assert.NotEqual(t, tid1, tid2)
}

func TestWithTraceIDRejectsInvalidHex(t *testing.T) {
	ctx := WithTraceID(context.Background(), "not-hex")

	gen := newIDGenerator()
	tid, _ := gen.NewIDs(ctx)

	// Invalid IDs are ignored and a random one is generated instead.
	assert.True(t, tid.IsValid())
	assert.NotEqual(t, "not-hex", tid.String())
}

func TestNewSpanIDUnique(t *testing.T) {
	gen := newIDGenerator()
	tid, _ := gen.NewIDs(context.Background())

	sid1 := gen.NewSpanID(context.Background(), tid)
	sid2 := gen.NewSpanID(context.Background(), tid)

	assert.True(t, sid1.IsValid())
	assert.NotEqual(t, sid1, sid2)
}
