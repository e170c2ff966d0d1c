package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewSessionID builds a timestamped session ID like
// "scoring-demo-20250101-153045".
func NewSessionID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, time.Now().Format("20060102-150405"))
}

// NewRunID returns a random run identifier.
func NewRunID() string {
	return uuid.NewString()
}
