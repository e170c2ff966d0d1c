package langfuse

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

// defaultStderrLogger is used as a fallback when no logger is configured.
// This ensures async errors are never silently dropped.
var defaultStderrLogger = log.New(os.Stderr, "langfuse: ", log.LstdFlags)

// Client is the Langfuse API client. It provides synchronous access to the
// REST endpoints through sub-clients and asynchronous batched ingestion via
// the Ingest* methods. Call Shutdown to flush pending events and stop the
// background flush loop.
type Client struct {
	config *Config
	http   *httpClient

	mu            sync.Mutex
	pendingEvents []ingestionEvent
	closed        bool

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	stopFlush chan struct{}

	traces       *TracesClient
	observations *ObservationsClient
	scores       *ScoresClient
	sessions     *SessionsClient
}

// New creates a new Langfuse client.
func New(publicKey, secretKey string, opts ...ConfigOption) (*Client, error) {
	cfg := &Config{
		PublicKey: publicKey,
		SecretKey: secretKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a new Langfuse client from a Config struct.
//
// Example:
//
//	client, err := langfuse.NewWithConfig(&langfuse.Config{
//	    PublicKey: os.Getenv("LANGFUSE_PUBLIC_KEY"),
//	    SecretKey: os.Getenv("LANGFUSE_SECRET_KEY"),
//	    Host:      "http://localhost:3000",
//	})
func NewWithConfig(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilRequest
	}

	// Copy to avoid modifying the caller's struct
	cfgCopy := *cfg

	cfgCopy.applyDefaults()

	if err := cfgCopy.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		config:        &cfgCopy,
		http:          newHTTPClient(&cfgCopy),
		pendingEvents: make([]ingestionEvent, 0, cfgCopy.BatchSize),
		ctx:           ctx,
		cancel:        cancel,
		stopFlush:     make(chan struct{}),
	}

	c.traces = &TracesClient{client: c}
	c.observations = &ObservationsClient{client: c}
	c.scores = &ScoresClient{client: c}
	c.sessions = &SessionsClient{client: c}

	c.wg.Add(1)
	go c.flushLoop()

	return c, nil
}

// Traces returns the traces sub-client.
func (c *Client) Traces() *TracesClient { return c.traces }

// Observations returns the observations sub-client.
func (c *Client) Observations() *ObservationsClient { return c.observations }

// Scores returns the scores sub-client.
func (c *Client) Scores() *ScoresClient { return c.scores }

// Sessions returns the sessions sub-client.
func (c *Client) Sessions() *SessionsClient { return c.sessions }

// Host returns the configured Langfuse host.
func (c *Client) Host() string { return c.config.Host }

// Health checks the health of the Langfuse API.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var result HealthStatus
	if err := c.http.get(ctx, endpoints.Health, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// flushLoop periodically flushes pending ingestion events.
func (c *Client) flushLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopFlush:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if err := c.Flush(c.ctx); err != nil && err != ErrClientClosed {
				c.handleError(err)
			}
		}
	}
}

// Flush sends all pending events to the ingestion endpoint.
func (c *Client) Flush(ctx context.Context) error {
	events, err := c.extractPendingEvents()
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	return c.sendBatch(ctx, events)
}

// extractPendingEvents atomically extracts and clears pending events.
func (c *Client) extractPendingEvents() ([]ingestionEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClientClosed
	}
	if len(c.pendingEvents) == 0 {
		return nil, nil
	}

	events := c.pendingEvents
	c.pendingEvents = make([]ingestionEvent, 0, c.config.BatchSize)
	return events, nil
}

// queueEvent adds an event to the pending queue. When the batch size is
// reached the full batch is sent in a tracked background goroutine.
func (c *Client) queueEvent(ctx context.Context, event ingestionEvent) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	c.pendingEvents = append(c.pendingEvents, event)
	var full []ingestionEvent
	if len(c.pendingEvents) >= c.config.BatchSize {
		full = c.pendingEvents
		c.pendingEvents = make([]ingestionEvent, 0, c.config.BatchSize)
	}
	c.mu.Unlock()

	if len(full) > 0 {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.sendBatch(ctx, full); err != nil {
				c.handleError(err)
			}
		}()
	}

	return nil
}

// sendBatch sends a batch of events to the ingestion endpoint. Per-event
// errors in a 207 response are logged but do not fail the batch.
func (c *Client) sendBatch(ctx context.Context, events []ingestionEvent) error {
	if len(events) == 0 {
		return nil
	}

	req := &ingestionRequest{Batch: events}
	var result IngestionResult
	if err := c.http.post(ctx, endpoints.Ingestion, req, &result); err != nil {
		return err
	}

	if result.HasErrors() {
		for _, e := range result.Errors {
			c.logError("ingestion error", "eventId", e.ID, "status", e.Status, "message", e.Message)
		}
	}

	return nil
}

// Shutdown flushes pending events and closes the client gracefully.
//
// The shutdown process:
//  1. Stop accepting new events
//  2. Stop the flush loop
//  3. Drain pending events with a bounded timeout
//  4. Wait for in-flight batch sends to finish
func (c *Client) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	c.closed = true
	remaining := c.pendingEvents
	c.pendingEvents = nil
	c.mu.Unlock()

	close(c.stopFlush)

	var drainErr error
	if len(remaining) > 0 {
		drainCtx, cancel := context.WithTimeout(ctx, c.config.ShutdownTimeout)
		drainErr = c.sendBatch(drainCtx, remaining)
		cancel()
		if drainErr != nil {
			c.logError("failed to drain pending events", "count", len(remaining), "error", drainErr)
		}
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		c.cancel()
		<-done
		if drainErr == nil {
			drainErr = ctx.Err()
		}
	}

	c.cancel()
	return drainErr
}

// Close is an alias for Shutdown.
func (c *Client) Close(ctx context.Context) error {
	return c.Shutdown(ctx)
}

// handleError handles async errors. Errors are never silently dropped; if
// no logger is configured they go to stderr.
func (c *Client) handleError(err error) {
	if c.config.StructuredLogger != nil {
		c.config.StructuredLogger.Error("async error", "error", err)
		return
	}
	if c.config.Logger != nil {
		c.config.Logger.Printf("error: %v", err)
		return
	}
	defaultStderrLogger.Printf("unhandled async error: %v", err)
}

// logDebug logs a debug-level message when debug logging is enabled.
func (c *Client) logDebug(msg string, args ...any) {
	if !c.config.Debug {
		return
	}
	if c.config.StructuredLogger != nil {
		c.config.StructuredLogger.Debug(msg, args...)
	} else if c.config.Logger != nil {
		c.config.Logger.Printf(msg + formatArgs(args))
	}
}

// logError logs an error-level message.
func (c *Client) logError(msg string, args ...any) {
	if c.config.StructuredLogger != nil {
		c.config.StructuredLogger.Error(msg, args...)
	} else if c.config.Logger != nil {
		c.config.Logger.Printf("[ERROR] " + msg + formatArgs(args))
	} else {
		defaultStderrLogger.Printf("%s", msg+formatArgs(args))
	}
}
