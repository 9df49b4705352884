// Package catalog loads and indexes the static catalog of integrations,
// forms, and parameters, and renders it into the deterministic description
// block the reasoning engine sees.
//
// The catalog is read once per process and cached; a failed load is
// retried on the next request (a process serving requests with no catalog
// would otherwise need a restart). The rendered description is the only
// channel through which the engine learns what forms exist — its field
// order is a stable contract, not cosmetics.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/formdesk/formdesk/pkg/models"
	"github.com/rs/zerolog/log"
)

//go:embed forms.json
var defaultDocument []byte

// Catalog is the immutable, loaded form catalog.
type Catalog struct {
	Integrations []models.Integration
}

// Store owns the lazily-populated catalog cache. The first successful load
// wins; concurrent cold starts are serialized by the mutex so the cache is
// written at most once.
type Store struct {
	path string

	mu     sync.Mutex
	cached *Catalog
}

// NewStore creates a catalog store reading from path. An empty path uses
// the embedded default document.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the cached catalog, reading and validating the document on
// first use. Subsequent calls return the same *Catalog without re-reading.
func (s *Store) Load() (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	doc := defaultDocument
	source := "embedded"
	if s.path != "" {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read catalog document: %w", err)
		}
		doc = data
		source = s.path
	}

	cat, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", source, err)
	}

	forms := 0
	for _, integ := range cat.Integrations {
		forms += len(integ.Forms)
	}
	log.Info().
		Str("source", source).
		Int("integrations", len(cat.Integrations)).
		Int("forms", forms).
		Msg("Form catalog loaded")

	s.cached = cat
	return cat, nil
}

// Parse decodes and validates a catalog document.
func Parse(doc []byte) (*Catalog, error) {
	var integrations []models.Integration
	if err := json.Unmarshal(doc, &integrations); err != nil {
		return nil, fmt.Errorf("decode catalog document: %w", err)
	}

	for _, integ := range integrations {
		if integ.Name == "" {
			return nil, fmt.Errorf("integration with empty name")
		}
		if integ.BaseURL == "" {
			return nil, fmt.Errorf("integration %q: missing baseUrl", integ.Name)
		}
		for _, form := range integ.Forms {
			if !strings.HasPrefix(form.Path, "/") {
				return nil, fmt.Errorf("integration %q: form path %q must begin with /", integ.Name, form.Path)
			}
			seen := make(map[string]bool, len(form.Params))
			for _, p := range form.Params {
				if p.Name == "" {
					return nil, fmt.Errorf("integration %q form %q: param with empty name", integ.Name, form.Path)
				}
				if seen[p.Name] {
					return nil, fmt.Errorf("integration %q form %q: duplicate param %q", integ.Name, form.Path, p.Name)
				}
				seen[p.Name] = true
			}
		}
	}

	return &Catalog{Integrations: integrations}, nil
}

// FormURL joins an integration base URL with a form path without doubling
// or dropping the separating slash.
func FormURL(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + path
}

// Describe renders every integration and its forms into the human-readable
// block handed to the reasoning engine. Output is byte-identical across
// calls on the same catalog.
func (c *Catalog) Describe() string {
	var b strings.Builder

	for i, integ := range c.Integrations {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Integration: %s\n", integ.Name)
		fmt.Fprintf(&b, "Description: %s\n", integ.Description)

		for _, form := range integ.Forms {
			fmt.Fprintf(&b, "\n  Form URL: %s\n", FormURL(integ.BaseURL, form.Path))
			fmt.Fprintf(&b, "  Description: %s\n", form.Description)
			if len(form.Keywords) > 0 {
				fmt.Fprintf(&b, "  Keywords: %s\n", strings.Join(form.Keywords, ", "))
			}
			for _, p := range form.Params {
				required := ""
				if p.Required {
					required = " [Required]"
				}
				fmt.Fprintf(&b, "    Param: %s (%s)%s - %s\n", p.Name, p.Type, required, p.Description)
				if len(p.Options) > 0 {
					labels := make([]string, len(p.Options))
					for j, o := range p.Options {
						labels[j] = o.DisplayLabel()
					}
					fmt.Fprintf(&b, "      Options: %s\n", strings.Join(labels, ", "))
				}
			}
		}
	}

	return b.String()
}
