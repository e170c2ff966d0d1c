package langfusetest

import (
	"context"
	"time"

	"github.com/retroryan/langfuse-samples/langfuse"
)

// TestingT is an interface that matches *testing.T and *testing.B.
type TestingT interface {
	Fatalf(format string, args ...any)
	Cleanup(func())
	Helper()
}

// NewTestClient creates a client backed by a fresh mock server. Batching is
// configured so events only leave the client on an explicit Flush. Client
// and server are cleaned up when the test ends.
func NewTestClient(t TestingT, opts ...langfuse.ConfigOption) (*langfuse.Client, *Server) {
	t.Helper()

	server := NewServer()

	base := []langfuse.ConfigOption{
		langfuse.WithBatchSize(1000),
		langfuse.WithFlushInterval(time.Hour),
	}
	client, err := server.Client(append(base, opts...)...)
	if err != nil {
		server.Close()
		t.Fatalf("failed to create test client: %v", err)
	}

	t.Cleanup(func() {
		client.Shutdown(context.Background())
		server.Close()
	})

	return client, server
}
