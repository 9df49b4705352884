package gateway

import "fmt"

// EngineError is a failed exchange with the reasoning engine. StatusCode
// and Status carry the engine's error metadata when the failure came from
// an HTTP error response; transport-level failures leave them zero. The
// message is never shown to clients — the classifier maps it to one of the
// canned degraded responses.
type EngineError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *EngineError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reasoning engine: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return "reasoning engine: " + e.Message
}
