// Package gateway is the boundary adapter to the hosted reasoning engine
// (the Gemini generateContent API). It owns availability state and the wire
// exchange: one prompt plus conversation turns in, raw text out. It does
// not retry and it does not interpret the text; failures are classified
// upstream.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/formdesk/formdesk/pkg/models"
	"github.com/rs/zerolog/log"
)

// Mode selects how the engine's output is constrained.
type Mode string

const (
	// ModeChat returns free text.
	ModeChat Mode = "chat"
	// ModeSearch constrains output to a JSON array of {url, description}.
	ModeSearch Mode = "search"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Config configures the gateway.
type Config struct {
	// APIKey is the engine credential. Empty means the gateway starts
	// unavailable — an expected degraded mode, not an error.
	APIKey string
	// Model is the generative model name, e.g. "gemini-2.0-flash".
	Model string
	// Endpoint overrides the API base URL (used by tests).
	Endpoint string
}

// Gateway sends prompts to the reasoning engine.
type Gateway struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a gateway. It never fails: a missing credential yields an
// unavailable gateway that downstream logic treats as degraded mode.
func New(cfg Config) *Gateway {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("Reasoning engine credential missing; assistant starts in degraded mode")
	}
	return &Gateway{
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Available reports whether the gateway holds a credential. Callers must
// check this before Generate and take the degraded path when false.
func (g *Gateway) Available() bool {
	return g.apiKey != ""
}

// ── Wire Types ──────────────────────────────────────────────

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

// schema is the subset of the engine's OpenAPI-style schema language needed
// to pin search output to an array of {url, description}.
type schema struct {
	Type       string             `json:"type"`
	Items      *schema            `json:"items,omitempty"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// searchResultSchema constrains search-mode output when the engine supports
// schema-constrained generation.
var searchResultSchema = &schema{
	Type: "ARRAY",
	Items: &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"url":         {Type: "STRING"},
			"description": {Type: "STRING"},
		},
		Required: []string{"url", "description"},
	},
}

// Generate sends the instruction document, prior turns, and the new user
// message to the engine and returns its raw text. One attempt, no retry;
// failures surface as *EngineError for classification.
func (g *Gateway) Generate(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userText string, mode Mode) (string, error) {
	if !g.Available() {
		return "", &EngineError{Message: "reasoning engine credential not configured"}
	}

	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		parts := make([]part, len(turn.Parts))
		for i, p := range turn.Parts {
			parts[i] = part{Text: p}
		}
		contents = append(contents, content{Role: turn.Role, Parts: parts})
	}
	contents = append(contents, content{Role: models.RoleUser, Parts: []part{{Text: userText}}})

	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents:          contents,
	}
	if mode == ModeSearch {
		req.GenerationConfig = &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   searchResultSchema,
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", &EngineError{Message: fmt.Sprintf("encode request: %v", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", &EngineError{Message: fmt.Sprintf("create request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &EngineError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", decodeAPIError(httpResp)
	}

	var genResp generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&genResp); err != nil {
		return "", &EngineError{Message: fmt.Sprintf("decode response: %v", err)}
	}

	text := ""
	for _, cand := range genResp.Candidates {
		for _, p := range cand.Content.Parts {
			text += p.Text
		}
		break // only the first candidate is used
	}

	log.Debug().
		Str("mode", string(mode)).
		Int("turns", len(contents)).
		Dur("latency", time.Since(start)).
		Msg("Reasoning engine call completed")

	return text, nil
}

// decodeAPIError turns a non-200 engine response into an *EngineError,
// keeping the status code and the engine's status token for the classifier.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil && ae.Error.Message != "" {
		return &EngineError{
			StatusCode: resp.StatusCode,
			Status:     ae.Error.Status,
			Message:    ae.Error.Message,
		}
	}
	return &EngineError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("engine returned status %d: %s", resp.StatusCode, string(raw)),
	}
}
