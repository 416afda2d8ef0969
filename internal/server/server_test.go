package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/learnmap/internal/learnmap"
	"github.com/mohammad-safakhou/learnmap/internal/validation"
	"github.com/mohammad-safakhou/learnmap/models"
	"github.com/mohammad-safakhou/learnmap/provider"
)

type stubProvider struct {
	text  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(context.Context, provider.Request) (string, error) {
	s.calls++
	return s.text, s.err
}

func newTestServer(p provider.Provider) *echo.Echo {
	gen := learnmap.NewGenerator(p, validation.New(validation.AlwaysReachable))
	return New(Options{Generator: gen})
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGenerateMapMissingTopic(t *testing.T) {
	sp := &stubProvider{text: `{"nodes":[]}`}
	e := newTestServer(sp)

	for _, path := range []string{"/generate-map", "/api/generate-map"} {
		rec := do(e, http.MethodPost, path, `{"level":"advanced"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", path, rec.Code)
		}
		if body := decodeError(t, rec); body.Error != "Missing 'topic' in request body." {
			t.Fatalf("%s: unexpected error body %+v", path, body)
		}
	}
	if sp.calls != 0 {
		t.Fatalf("model must not be called without a topic, got %d calls", sp.calls)
	}
}

func TestGenerateMapInvalidModelJSON(t *testing.T) {
	sp := &stubProvider{text: "Here is your learning map: nodes..."}
	rec := do(newTestServer(sp), http.MethodPost, "/api/generate-map", `{"topic":"Pottery"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != "Model returned invalid JSON. Please try again." {
		t.Fatalf("unexpected error %+v", body)
	}
	if strings.Contains(rec.Body.String(), "Here is your") {
		t.Fatalf("raw model text must not be returned: %s", rec.Body.String())
	}
}

func TestGenerateMapMissingNodes(t *testing.T) {
	sp := &stubProvider{text: `{"topic":"Pottery","overview":"x"}`}
	rec := do(newTestServer(sp), http.MethodPost, "/generate-map", `{"topic":"Pottery"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != "Invalid structure: missing nodes[] in response." || body.Details != "" {
		t.Fatalf("unexpected error %+v", body)
	}
}

func TestGenerateMapUpstreamFailure(t *testing.T) {
	sp := &stubProvider{err: errors.New("connection refused")}
	rec := do(newTestServer(sp), http.MethodPost, "/generate-map", `{"topic":"Pottery"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != "Failed to generate learning map." || body.Details != "connection refused" {
		t.Fatalf("unexpected error %+v", body)
	}
}

func TestGenerateMapSuccess(t *testing.T) {
	sp := &stubProvider{text: `{"nodes":[{"id":"1","title":"Kiln Basics","level":"beginner","summary":"Firing","resources":[{"type":"article","title":"Kiln guide","url":"https://www.udemy.com/kiln"}]}]}`}
	rec := do(newTestServer(sp), http.MethodPost, "/api/generate-map", `{"topic":"Pottery","level":"intermediate"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected request id header")
	}
	var m models.LearningMap
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Topic != "Pottery" || m.TargetLevel != models.LevelIntermediate {
		t.Fatalf("unexpected map header: %+v", m)
	}
	if len(m.Nodes) != 1 || len(m.Nodes[0].Resources) != 1 {
		t.Fatalf("unexpected nodes: %+v", m.Nodes)
	}
	if got := m.Nodes[0].Resources[0].URL; got != "https://en.wikipedia.org/wiki/Pottery_Kiln_Basics" {
		t.Fatalf("blocked link should be replaced by fallback, got %s", got)
	}
}

func TestRootAndHealth(t *testing.T) {
	e := newTestServer(&stubProvider{})

	rec := do(e, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var root map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &root); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if root["status"] != "ok" || root["message"] != "Learning Map API" {
		t.Fatalf("unexpected root body %v", root)
	}

	rec = do(e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	e := newTestServer(&stubProvider{})
	req := httptest.NewRequest(http.MethodOptions, "/api/generate-map", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "*" {
		t.Fatalf("expected wildcard CORS, got headers %v", rec.Header())
	}
}

func TestMalformedBody(t *testing.T) {
	sp := &stubProvider{}
	rec := do(newTestServer(sp), http.MethodPost, "/generate-map", `{"topic":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if sp.calls != 0 {
		t.Fatalf("model must not be called on a malformed body")
	}
}
