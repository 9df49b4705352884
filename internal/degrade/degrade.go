// Package degrade maps reasoning-engine failures to the fixed set of
// user-safe degraded responses. Classification order is part of the
// contract: overload wins over quota wins over credentials wins over the
// generic bucket, so an error matching two buckets resolves to the earlier
// one. Raw error text never reaches the client.
package degrade

import (
	"errors"
	"strings"

	"github.com/formdesk/formdesk/internal/gateway"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// The four canned degraded messages. These are the only failure texts a
// client ever sees.
const (
	MsgHighDemand  = "The assistant is experiencing high demand right now. Please try again in a few moments."
	MsgDailyLimit  = "The assistant has reached its daily usage limit. Please try again tomorrow."
	MsgMaintenance = "The assistant is temporarily unavailable for maintenance. Please use the search bar or browse the forms directly."
	MsgGeneric     = "Sorry, something went wrong while processing your request. Please try again."
)

// Response is one degraded outcome. AIDisabled tells the client to stop
// offering the assistant for the rest of the session.
type Response struct {
	Message    string
	AIDisabled bool
}

// Unavailable is the degraded response for a gateway that never had a
// credential. Same maintenance message as the credential bucket.
func Unavailable() Response {
	return Response{Message: MsgMaintenance, AIDisabled: true}
}

// Classify inspects an engine failure and picks exactly one degraded
// response. Buckets are checked in fixed order: overload (503), quota
// (429), credentials, then the generic bucket with the original error
// logged under a correlation id.
func Classify(err error) Response {
	code := 0
	status := ""
	var ee *gateway.EngineError
	if errors.As(err, &ee) {
		code = ee.StatusCode
		status = ee.Status
	}
	msg := strings.ToLower(err.Error() + " " + status)

	switch {
	case code == 503 || strings.Contains(msg, "overloaded") || strings.Contains(msg, "unavailable"):
		return Response{Message: MsgHighDemand, AIDisabled: true}

	case code == 429 || strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted"):
		return Response{Message: MsgDailyLimit, AIDisabled: true}

	case code == 401 || code == 403 ||
		strings.Contains(msg, "api key") ||
		strings.Contains(msg, "credential") ||
		strings.Contains(msg, "permission_denied") ||
		strings.Contains(msg, "unauthenticated"):
		return Response{Message: MsgMaintenance, AIDisabled: true}

	default:
		log.Error().
			Err(err).
			Str("correlation_id", uuid.New().String()).
			Msg("Unclassified reasoning engine failure")
		return Response{Message: MsgGeneric}
	}
}
