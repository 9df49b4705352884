// Package models defines the shared data model for the formdesk support
// portal: the form catalog shape (integrations, forms, parameters), the
// per-session user context, conversation turns, and the request/response
// payloads of the HTTP API.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ── Form Catalog ─────────────────────────────────────────────

// Integration is one backend ticketing system and the forms it exposes.
type Integration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BaseURL     string `json:"baseUrl"`
	Forms       []Form `json:"forms"`
}

// Form is one requestable action within an integration. Path is appended
// to the integration's BaseURL to build the full link and always begins
// with "/".
type Form struct {
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	Params      []Param  `json:"params,omitempty"`
}

// Param is one named query parameter of a form. Type is a semantic hint
// for the reasoning engine, not enforced at parse time. A required param
// without a resolved value blocks URL construction for its form.
type Param struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Description string        `json:"description"`
	Required    bool          `json:"required"`
	Options     []ParamOption `json:"options,omitempty"`
}

// ParamOption is one acceptable value of a param. In the catalog document
// an option is either a bare string or a {value, label} object.
type ParamOption struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// UnmarshalJSON accepts both option shapes: "remote" and
// {"value": "remote", "label": "Remote / WFH"}.
func (o *ParamOption) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		o.Value = bare
		o.Label = ""
		return nil
	}

	type paramOption ParamOption // avoid recursing into this method
	var obj paramOption
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("param option must be a string or {value, label}: %w", err)
	}
	*o = ParamOption(obj)
	return nil
}

// DisplayLabel returns the option's label, falling back to its raw value.
func (o ParamOption) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// ── User Context ─────────────────────────────────────────────

// UserDetails are the fixed per-session facts about the caller. They are
// always known to the core and must never be re-asked by the assistant.
//
// Two wire shapes exist: the canonical six-field shape used by the chat
// and smart-search endpoints (workLocation + officeLocation), and the
// link-finder variant that sends a single location field. Normalize maps
// the variant onto the canonical shape.
type UserDetails struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	JobTitle       string `json:"jobTitle"`
	Component      string `json:"component"`
	WorkLocation   string `json:"workLocation,omitempty"`
	OfficeLocation string `json:"officeLocation,omitempty"`
	Location       string `json:"location,omitempty"`
}

// DetailShape selects which location fields an endpoint variant requires.
type DetailShape string

const (
	// ShapeSplitLocation requires workLocation and officeLocation.
	ShapeSplitLocation DetailShape = "split"
	// ShapeSingleLocation requires the single location field.
	ShapeSingleLocation DetailShape = "single"
)

// MissingFields returns the names of required fields that are empty or
// whitespace, in a fixed order. An empty result means the details are valid
// for the given shape.
func (u UserDetails) MissingFields(shape DetailShape) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	check("firstName", u.FirstName)
	check("lastName", u.LastName)
	check("jobTitle", u.JobTitle)
	check("component", u.Component)

	switch shape {
	case ShapeSingleLocation:
		check("location", u.Location)
	default:
		check("workLocation", u.WorkLocation)
		check("officeLocation", u.OfficeLocation)
	}
	return missing
}

// Normalize maps the single-location variant onto the canonical shape.
// When only Location is set it becomes both WorkLocation and OfficeLocation;
// already-populated fields are left alone.
func (u UserDetails) Normalize() UserDetails {
	if u.Location != "" {
		if u.WorkLocation == "" {
			u.WorkLocation = u.Location
		}
		if u.OfficeLocation == "" {
			u.OfficeLocation = u.Location
		}
	}
	return u
}

// ── Conversation ─────────────────────────────────────────────

// Turn roles, matching the reasoning engine's content convention.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ConversationTurn is one turn of a support session. Parts is a sequence of
// text segments rather than a single string to match the engine's
// multi-part content convention. History is append-only; past turns are
// never mutated.
type ConversationTurn struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

// Text joins the turn's parts into a single string.
func (t ConversationTurn) Text() string {
	return strings.Join(t.Parts, "\n")
}

// ── Results ──────────────────────────────────────────────────

// SearchResultItem is one resolved form link. Both fields are non-empty for
// every item surfaced to a caller; items failing that check are dropped.
type SearchResultItem struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// ── API Payloads ─────────────────────────────────────────────

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message     string             `json:"message"`
	History     []ConversationTurn `json:"history"`
	UserDetails UserDetails        `json:"userDetails"`
}

// ChatResponse is the success (or degraded) body of POST /api/chat.
type ChatResponse struct {
	Response   string `json:"response"`
	AIDisabled bool   `json:"aiDisabled,omitempty"`
}

// SearchRequest is the body of POST /api/smart-search and /api/link-finder.
type SearchRequest struct {
	Query       string      `json:"query"`
	UserDetails UserDetails `json:"userDetails"`
}

// SearchResponse is the body of POST /api/smart-search. Error is null on
// success and carries the degraded message otherwise.
type SearchResponse struct {
	Links      []SearchResultItem `json:"links"`
	Error      *string            `json:"error"`
	AIDisabled bool               `json:"aiDisabled,omitempty"`
}

// ── Errors ───────────────────────────────────────────────────

// ValidationError reports request fields that are missing or invalid. The
// message enumerates exactly the offending field names.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
