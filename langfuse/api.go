package langfuse

// apiPrefix is prepended to every endpoint path. LANGFUSE_HOST is configured
// without it, matching how the Langfuse docs present the host value.
const apiPrefix = "/api/public"

// endpoints defines all API endpoint paths used by this client.
var endpoints = struct {
	Health       string
	Ingestion    string
	Traces       string
	Observations string
	Scores       string
	ScoresV2     string
	Sessions     string
}{
	Health:       "/health",
	Ingestion:    "/ingestion",
	Traces:       "/traces",
	Observations: "/observations",
	Scores:       "/scores",
	ScoresV2:     "/v2/scores",
	Sessions:     "/sessions",
}
