package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formdesk/formdesk/internal/api"
	"github.com/formdesk/formdesk/internal/api/handlers"
	"github.com/formdesk/formdesk/internal/assistant"
	"github.com/formdesk/formdesk/internal/catalog"
	"github.com/formdesk/formdesk/internal/gateway"
	"github.com/formdesk/formdesk/pkg/models"
)

// stubEngine drives the full handler stack without a live reasoning engine.
type stubEngine struct {
	available bool
	reply     string
	err       error
	calls     int
}

func (e *stubEngine) Available() bool { return e.available }

func (e *stubEngine) Generate(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userText string, mode gateway.Mode) (string, error) {
	e.calls++
	return e.reply, e.err
}

func newTestServer(t *testing.T, engine *stubEngine) *httptest.Server {
	t.Helper()
	svc := assistant.New(catalog.NewStore(""), engine)
	h := handlers.New(svc, "test")
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const validUser = `{"firstName":"Ada","lastName":"Lovelace","jobTitle":"Engineer","component":"Platform","workLocation":"Remote","officeLocation":"London"}`

func TestChat_Success(t *testing.T) {
	engine := &stubEngine{available: true, reply: "Use this form: https://it.example/hardware-issue?hardwareType=laptop"}
	srv := newTestServer(t, engine)

	resp := postJSON(t, srv.URL+"/api/chat", `{"message":"my laptop broke","history":[],"userDetails":`+validUser+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Response, "hardware-issue") {
		t.Errorf("response = %q", body.Response)
	}
	if body.AIDisabled {
		t.Error("successful chat should not set aiDisabled")
	}
}

func TestChat_MissingFieldsNamedIn400(t *testing.T) {
	srv := newTestServer(t, &stubEngine{available: true})

	resp := postJSON(t, srv.URL+"/api/chat",
		`{"message":"help","userDetails":{"firstName":"Ada","lastName":"Lovelace","workLocation":"Remote","officeLocation":"London"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if !strings.Contains(body["error"], "jobTitle") || !strings.Contains(body["error"], "component") {
		t.Errorf("error = %q, want both missing fields named", body["error"])
	}
	if strings.Contains(body["error"], "firstName") {
		t.Errorf("error = %q, names a present field", body["error"])
	}
}

func TestChat_UpdateInformationNeverHitsEngine(t *testing.T) {
	engine := &stubEngine{available: true, err: errors.New("must not be called")}
	srv := newTestServer(t, engine)

	resp := postJSON(t, srv.URL+"/api/chat", `{"message":"Update My Information","userDetails":`+validUser+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body models.ChatResponse
	json.NewDecoder(resp.Body).Decode(&body)
	for _, want := range []string{"Ada", "Lovelace", "Engineer", "Platform", "Remote", "London"} {
		if !strings.Contains(body.Response, want) {
			t.Errorf("response missing profile value %q", want)
		}
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, want 0", engine.calls)
	}
}

func TestChat_DegradedIs200WithFlag(t *testing.T) {
	srv := newTestServer(t, &stubEngine{available: false})

	resp := postJSON(t, srv.URL+"/api/chat", `{"message":"help","userDetails":`+validUser+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for degraded chat", resp.StatusCode)
	}

	var body models.ChatResponse
	json.NewDecoder(resp.Body).Decode(&body)
	if !body.AIDisabled {
		t.Error("degraded chat must set aiDisabled")
	}
}

func TestSmartSearch_Success(t *testing.T) {
	engine := &stubEngine{
		available: true,
		reply:     `[{"url":"https://it.example/hardware?hardwareType=laptop","description":"Laptop hardware issue"}]`,
	}
	srv := newTestServer(t, engine)

	resp := postJSON(t, srv.URL+"/api/smart-search", `{"query":"laptop issue","userDetails":`+validUser+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Links) != 1 || body.Links[0].URL != "https://it.example/hardware?hardwareType=laptop" {
		t.Errorf("links = %v", body.Links)
	}
	if body.Error != nil {
		t.Errorf("error = %v, want null", *body.Error)
	}
}

func TestSmartSearch_DegradedIs503(t *testing.T) {
	srv := newTestServer(t, &stubEngine{available: false})

	resp := postJSON(t, srv.URL+"/api/smart-search", `{"query":"laptop","userDetails":`+validUser+`}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 for degraded search", resp.StatusCode)
	}

	var body models.SearchResponse
	json.NewDecoder(resp.Body).Decode(&body)
	if !body.AIDisabled {
		t.Error("degraded search must set aiDisabled")
	}
	if body.Error == nil || *body.Error == "" {
		t.Error("degraded search must carry the degraded message")
	}
	if body.Links == nil || len(body.Links) != 0 {
		t.Errorf("links = %v, want empty array", body.Links)
	}
}

func TestLinkFinder_AcceptsSingleLocationShape(t *testing.T) {
	engine := &stubEngine{available: true, reply: "[]"}
	srv := newTestServer(t, engine)

	user := `{"firstName":"Ada","lastName":"Lovelace","jobTitle":"Engineer","component":"Platform","location":"Berlin"}`
	resp := postJSON(t, srv.URL+"/api/link-finder", `{"query":"book a desk","userDetails":`+user+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	// The same payload must fail the smart-search variant, which requires
	// the split location fields.
	resp = postJSON(t, srv.URL+"/api/smart-search", `{"query":"book a desk","userDetails":`+user+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("smart-search status = %d, want 400", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if !strings.Contains(body["error"], "workLocation") || !strings.Contains(body["error"], "officeLocation") {
		t.Errorf("error = %q, want the split location fields named", body["error"])
	}
}

func TestSmartSearch_PreflightBeforeValidation(t *testing.T) {
	srv := newTestServer(t, &stubEngine{})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/smart-search", nil)
	req.Header.Set("Origin", "https://portal.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Content-Type") {
		t.Errorf("Access-Control-Allow-Headers = %q, want Content-Type", got)
	}
}

func TestChat_InvalidBody(t *testing.T) {
	srv := newTestServer(t, &stubEngine{available: true})

	resp := postJSON(t, srv.URL+"/api/chat", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubEngine{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
