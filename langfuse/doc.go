// Package langfuse is a thin client for the Langfuse public REST API.
//
// It covers the surface the sample tools in this repository need: listing,
// inspecting, and deleting traces, observations, scores, and sessions, the
// health endpoint, and batched event ingestion for the demo programs that
// record traces and generations directly (the Bedrock demos export spans via
// OTEL instead, see the telemetry package).
//
// All requests authenticate with HTTP Basic auth built from the project's
// public/secret key pair. Construct a client from explicit keys:
//
//	client, err := langfuse.New(publicKey, secretKey,
//	    langfuse.WithHost("http://localhost:3000"))
//
// or from LANGFUSE_PUBLIC_KEY, LANGFUSE_SECRET_KEY, and LANGFUSE_HOST:
//
//	client, err := langfuse.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Shutdown(context.Background())
//
// Clients that ingest events must call Shutdown so pending events are
// drained before the process exits.
package langfuse
