// Package interpret validates the reasoning engine's raw output. Chat mode
// passes text through; search mode defensively extracts a JSON array of
// {url, description} items, tolerating code fences and junk elements the
// engine may emit despite instructions. A malformed search response never
// propagates as an error — at worst the caller sees zero results.
package interpret

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/formdesk/formdesk/pkg/models"
	"github.com/rs/zerolog/log"
)

// ErrEmptyResponse means the engine's result held no text content.
var ErrEmptyResponse = errors.New("reasoning engine returned no text content")

// ChatReply extracts the free-text reply for chat mode.
func ChatReply(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// SearchResults extracts validated result items from search-mode output.
// Steps: strip code fences, strict JSON parse, require an array, keep only
// elements carrying non-empty url and description strings. Every failure
// shrinks the result set instead of raising.
func SearchResults(raw string) []models.SearchResultItem {
	text := stripFences(raw)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		log.Warn().Err(err).Msg("Search response is not valid JSON; returning no results")
		return []models.SearchResultItem{}
	}

	arr, ok := parsed.([]any)
	if !ok {
		log.Warn().Msg("Search response is valid JSON but not an array; returning no results")
		return []models.SearchResultItem{}
	}

	items := make([]models.SearchResultItem, 0, len(arr))
	dropped := 0
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		url, _ := obj["url"].(string)
		desc, _ := obj["description"].(string)
		url = cleanURL(url)
		if url == "" || strings.TrimSpace(desc) == "" {
			dropped++
			continue
		}
		items = append(items, models.SearchResultItem{URL: url, Description: desc})
	}

	if dropped > 0 {
		log.Warn().
			Int("dropped", dropped).
			Int("kept", len(items)).
			Msg("Dropped malformed search result items")
	}
	return items
}

// stripFences removes a surrounding markdown code fence, with or without a
// language annotation, e.g. ```json ... ```.
func stripFences(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop the language annotation on the opening fence.
	if strings.HasPrefix(strings.ToLower(text), "json") {
		text = text[len("json"):]
	} else if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		first := strings.TrimSpace(text[:idx])
		if first == "" || isFenceLang(first) {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func isFenceLang(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// cleanURL trims whitespace and the stray backticks the engine sometimes
// wraps URLs in.
func cleanURL(url string) string {
	return strings.Trim(strings.TrimSpace(url), "`")
}
