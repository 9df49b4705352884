// Package assistant is the link-resolution core of the portal: one
// stateless service behind both the chat and search endpoints. Each request
// runs validate → (bypass) → availability check → prompt assembly → engine
// call → interpretation, with every engine failure classified into a
// user-safe degraded response. The reasoning engine sits behind the narrow
// Engine interface so tests substitute a deterministic stub.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/formdesk/formdesk/internal/catalog"
	"github.com/formdesk/formdesk/internal/degrade"
	"github.com/formdesk/formdesk/internal/gateway"
	"github.com/formdesk/formdesk/internal/interpret"
	"github.com/formdesk/formdesk/internal/prompt"
	"github.com/formdesk/formdesk/pkg/models"
	"github.com/rs/zerolog/log"
)

// Engine is the reasoning-engine boundary.
type Engine interface {
	Available() bool
	Generate(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userText string, mode gateway.Mode) (string, error)
}

// ErrCatalog means the form catalog could not be loaded. Handlers surface
// it as a generic 500; the underlying I/O error stays in the logs.
var ErrCatalog = errors.New("failed to load resource data")

// ErrEngineFailure is an unclassified engine failure: the client gets the
// generic message with a 500, without the aiDisabled flag.
var ErrEngineFailure = errors.New(degrade.MsgGeneric)

// updateInfoTrigger short-circuits the engine entirely: the reply is a
// summary of the caller's profile, checked before any engine interaction.
const updateInfoTrigger = "update my information"

// Service is the stateless link-resolution core. The only shared state is
// the catalog store's immutable cache.
type Service struct {
	catalog *catalog.Store
	engine  Engine
}

// New creates the assistant service.
func New(cat *catalog.Store, engine Engine) *Service {
	return &Service{catalog: cat, engine: engine}
}

// ── Chat ─────────────────────────────────────────────────────

// ChatResult is the outcome of a chat request. AIDisabled marks a degraded
// (but successful, HTTP 200) outcome.
type ChatResult struct {
	Response   string
	AIDisabled bool
}

// Chat handles one conversational turn. Returned errors are either
// *models.ValidationError, ErrCatalog, or ErrEngineFailure; degraded
// engine states come back as a ChatResult with AIDisabled set.
func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (*ChatResult, error) {
	var missing []string
	if strings.TrimSpace(req.Message) == "" {
		missing = append(missing, "message")
	}
	missing = append(missing, req.UserDetails.MissingFields(models.ShapeSplitLocation)...)
	if len(missing) > 0 {
		return nil, &models.ValidationError{Fields: missing}
	}

	if strings.EqualFold(strings.TrimSpace(req.Message), updateInfoTrigger) {
		return &ChatResult{Response: profileSummary(req.UserDetails)}, nil
	}

	if !s.engine.Available() {
		deg := degrade.Unavailable()
		return &ChatResult{Response: deg.Message, AIDisabled: deg.AIDisabled}, nil
	}

	cat, err := s.catalog.Load()
	if err != nil {
		log.Error().Err(err).Msg("Catalog load failed for chat request")
		return nil, ErrCatalog
	}

	sys := prompt.BuildChatPrompt(req.UserDetails, cat.Describe())
	raw, err := s.engine.Generate(ctx, sys, req.History, req.Message, gateway.ModeChat)
	if err != nil {
		return degradedChat(err)
	}

	reply, err := interpret.ChatReply(raw)
	if err != nil {
		return degradedChat(err)
	}
	log.Debug().Str("prompt_version", prompt.Version).Msg("Chat turn completed")
	return &ChatResult{Response: reply}, nil
}

// degradedChat maps a classified failure onto the chat contract: flagged
// buckets become a 200 degraded reply, the generic bucket becomes an error.
func degradedChat(err error) (*ChatResult, error) {
	deg := degrade.Classify(err)
	if !deg.AIDisabled {
		return nil, ErrEngineFailure
	}
	return &ChatResult{Response: deg.Message, AIDisabled: true}, nil
}

// profileSummary renders all known profile values verbatim so the employee
// can spot stale ones.
func profileSummary(u models.UserDetails) string {
	u = u.Normalize()
	return fmt.Sprintf(
		"Here is the information I have on file for you:\n\n"+
			"- First name: %s\n"+
			"- Last name: %s\n"+
			"- Job title: %s\n"+
			"- Component: %s\n"+
			"- Work location: %s\n"+
			"- Office location: %s\n\n"+
			"If anything is out of date, please update it through your profile settings and start a new conversation.",
		u.FirstName, u.LastName, u.JobTitle, u.Component, u.WorkLocation, u.OfficeLocation)
}

// ── Search ───────────────────────────────────────────────────

// SearchOutcome is the outcome of a search request. Degraded is non-nil
// when the engine was unavailable or failed in a flagged way; handlers turn
// it into the 503 degraded payload.
type SearchOutcome struct {
	Links    []models.SearchResultItem
	Degraded *degrade.Response
}

// Search resolves a one-shot query into validated form links. The shape
// argument selects which UserDetails variant the endpoint requires.
// Returned errors are *models.ValidationError, ErrCatalog, or
// ErrEngineFailure.
func (s *Service) Search(ctx context.Context, req models.SearchRequest, shape models.DetailShape) (*SearchOutcome, error) {
	var missing []string
	if strings.TrimSpace(req.Query) == "" {
		missing = append(missing, "query")
	}
	missing = append(missing, req.UserDetails.MissingFields(shape)...)
	if len(missing) > 0 {
		return nil, &models.ValidationError{Fields: missing}
	}

	if !s.engine.Available() {
		deg := degrade.Unavailable()
		return &SearchOutcome{Links: []models.SearchResultItem{}, Degraded: &deg}, nil
	}

	cat, err := s.catalog.Load()
	if err != nil {
		log.Error().Err(err).Msg("Catalog load failed for search request")
		return nil, ErrCatalog
	}

	sys := prompt.BuildSearchPrompt(req.UserDetails, cat.Describe())
	raw, err := s.engine.Generate(ctx, sys, nil, req.Query, gateway.ModeSearch)
	if err != nil {
		deg := degrade.Classify(err)
		if !deg.AIDisabled {
			return nil, ErrEngineFailure
		}
		return &SearchOutcome{Links: []models.SearchResultItem{}, Degraded: &deg}, nil
	}

	links := interpret.SearchResults(raw)
	log.Info().Int("links", len(links)).Str("prompt_version", prompt.Version).Msg("Search resolved")
	return &SearchOutcome{Links: links}, nil
}
