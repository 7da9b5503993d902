package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/texforge/resumed/internal/history"
	"github.com/texforge/resumed/internal/infrastructure/config"
	"github.com/texforge/resumed/internal/infrastructure/database"
	"github.com/texforge/resumed/internal/infrastructure/logging"
	"github.com/texforge/resumed/internal/latex"
	"github.com/texforge/resumed/internal/render"
	"github.com/texforge/resumed/internal/resume"
	"github.com/texforge/resumed/internal/source"
	_ "github.com/texforge/resumed/migrations"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

const validBody = `{
  "personalInfo": {"name": "Ada Lovelace", "title": "Engineer"},
  "socialLinks": {"github": "https://github.com/ada"},
  "workEx": [{"role": "Engineer", "company": "Analytical Engines", "period": "1843", "description": ["Wrote the first program"]}]
}`

// stubCompiler returns fixed bytes or a fixed error.
type stubCompiler struct {
	pdf []byte
	err error
}

func (c *stubCompiler) Compile(_ context.Context, _ *latex.Document, _ string) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.pdf, nil
}

// blockingCompiler waits for cancellation like a hung latexmk.
type blockingCompiler struct{}

func (blockingCompiler) Compile(ctx context.Context, _ *latex.Document, _ string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// slowCompiler takes a fixed time per document, like a real latexmk run.
type slowCompiler struct{ delay time.Duration }

func (c slowCompiler) Compile(ctx context.Context, _ *latex.Document, _ string) ([]byte, error) {
	select {
	case <-time.After(c.delay):
		return []byte("%PDF-1.5\n%slow\n"), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type stubFetcher struct {
	data *resume.Resume
	err  error
}

func (f *stubFetcher) Fetch(context.Context) (*resume.Resume, error) {
	return f.data, f.err
}

type stubCheck struct{ err error }

func (c stubCheck) HealthCheck(context.Context) error { return c.err }

type testEnv struct {
	srv     *Server
	handler http.Handler
	repo    *history.SQLiteRepository
	db      *database.DB
}

type envOption func(*Deps, *render.Options)

func withCompiler(c render.Compiler) envOption {
	return func(_ *Deps, o *render.Options) { o.Compiler = c }
}

func withTimeout(d time.Duration) envOption {
	return func(_ *Deps, o *render.Options) { o.Timeout = d }
}

func withConcurrency(n int) envOption {
	return func(_ *Deps, o *render.Options) { o.Concurrency = n }
}

func withWriteTimeout(timeout time.Duration) envOption {
	return func(d *Deps, _ *render.Options) { d.WriteTimeout = timeout }
}

func withFetcher(f Fetcher) envOption {
	return func(d *Deps, _ *render.Options) { d.Fetcher = f }
}

func withAuth() envOption {
	return func(d *Deps, _ *render.Options) {
		d.Security = config.SecurityConfig{
			Auth: config.AuthConfig{Enabled: true},
			JWT:  config.JWTConfig{Secret: testSecret, Issuer: "resumed"},
		}
	}
}

func withoutHistory() envOption {
	return func(d *Deps, o *render.Options) {
		d.History = nil
		o.Recorder = nil
	}
}

// newTestEnv wires a Server to a real render.Service backed by in-memory SQLite.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	repo := history.NewSQLiteRepository(db.DB)

	log := logging.Discard()
	deps := Deps{
		Config:  config.APIConfig{Host: "127.0.0.1", Port: 0},
		Logger:  log,
		History: repo,
		DB:      db,
		Checks:  map[string]HealthChecker{"database": db},
		Version: "test",
	}
	ropts := render.Options{
		Compiler: &stubCompiler{pdf: []byte("%PDF-1.5\n%test\n")},
		Recorder: repo,
		Logger:   log,
	}
	for _, o := range opts {
		o(&deps, &ropts)
	}
	deps.Renderer = render.New(ropts)

	srv, err := New(deps)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return &testEnv{srv: srv, handler: srv.Handler(), repo: repo, db: db}
}

func (e *testEnv) do(t *testing.T, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()
	var e Error
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("error body is not JSON: %v\n%s", err, rec.Body.String())
	}
	return e
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() without logger: expected error")
	}
	if _, err := New(Deps{Logger: logging.Discard()}); err == nil {
		t.Error("New() without renderer: expected error")
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestHealthDetailed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	env.srv.checks["mqtt"] = stubCheck{err: errors.New("not connected")}
	rec = env.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("status = %q, want degraded", body.Status)
	}
	if body.Checks["database"] != "ok" || body.Checks["mqtt"] != "not connected" {
		t.Errorf("checks = %v", body.Checks)
	}
}

func TestGenerateResume_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/generate-resume", validBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="resume.pdf"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != "%PDF-1.5\n%test\n" {
		t.Errorf("body = %q", rec.Body.String())
	}

	id := rec.Header().Get("X-Render-ID")
	if id == "" {
		t.Fatal("X-Render-ID header missing")
	}
	got, err := env.repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("history Get() error = %v", err)
	}
	if got.Origin != history.OriginRequest || got.Status != history.StatusSucceeded {
		t.Errorf("history record = %+v", got)
	}
}

func TestGenerateResume_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", "", "No JSON data provided"},
		{"empty object", "{}", "No JSON data provided"},
		{"null", "null", "No JSON data provided"},
		{"no sections", `{"personalInfo": {"name": "Ada"}}`, "Either workEx or socialLinks must be provided"},
		{"malformed", `{"workEx": [`, "invalid JSON"},
		{"wrong type", `{"workEx": 42}`, "invalid JSON"},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/generate-resume", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			e := decodeError(t, rec)
			if e.Code != ErrCodeBadRequest {
				t.Errorf("code = %q, want %q", e.Code, ErrCodeBadRequest)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", e.Message, tt.wantMsg)
			}
		})
	}
}

func TestGenerateResume_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t)

	big := `{"workEx": [], "pad": "` + strings.Repeat("x", maxRequestBodySize) + `"}`
	rec := env.do(t, http.MethodPost, "/generate-resume", big, nil)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestGenerateResume_RenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		opts     []envOption
		wantCode int
		wantErr  string
	}{
		{
			name:     "compile failure",
			opts:     []envOption{withCompiler(&stubCompiler{err: &latex.CompileError{Code: 12}})},
			wantCode: http.StatusInternalServerError,
			wantErr:  ErrCodeRenderFailed,
		},
		{
			name:     "toolchain missing",
			opts:     []envOption{withCompiler(&stubCompiler{err: fmt.Errorf("looking up latexmk: %w", latex.ErrToolchainMissing)})},
			wantCode: http.StatusServiceUnavailable,
			wantErr:  ErrCodeUnavailable,
		},
		{
			name:     "timeout",
			opts:     []envOption{withCompiler(blockingCompiler{}), withTimeout(20 * time.Millisecond)},
			wantCode: http.StatusGatewayTimeout,
			wantErr:  ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.opts...)
			rec := env.do(t, http.MethodPost, "/generate-resume", validBody, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if e := decodeError(t, rec); e.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", e.Code, tt.wantErr)
			}

			list, err := env.repo.List(context.Background(), history.Filter{Status: history.StatusFailed})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if list.Total != 1 {
				t.Errorf("failed renders recorded = %d, want 1", list.Total)
			}
		})
	}
}

func TestGenerateResume_QueuedRendersGetFullResponse(t *testing.T) {
	const writeTimeout = 500 * time.Millisecond
	env := newTestEnv(t,
		withCompiler(slowCompiler{delay: 300 * time.Millisecond}),
		withConcurrency(1),
		withTimeout(400*time.Millisecond),
		withWriteTimeout(writeTimeout),
	)

	ts := httptest.NewUnstartedServer(env.handler)
	ts.Config.WriteTimeout = writeTimeout
	ts.Start()
	defer ts.Close()

	const n = 3
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/generate-resume", "application/json", strings.NewReader(validBody))
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			switch {
			case err != nil:
				errs[i] = err
			case resp.StatusCode != http.StatusOK:
				errs[i] = fmt.Errorf("status %d: %s", resp.StatusCode, body)
			case !bytes.HasPrefix(body, []byte("%PDF")):
				errs[i] = fmt.Errorf("body is not a PDF: %q", body)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d: %v", i, err)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"0.0.0.0", "0.0.0.0:8080"},
		{"", ":8080"},
		{"::", "[::]:8080"},
		{"::1", "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			srv := &Server{cfg: config.APIConfig{Host: tt.host, Port: 8080}}
			if got := srv.addr(); got != tt.want {
				t.Errorf("addr() = %q, want %q", got, tt.want)
			}
			cfg := &config.Config{API: config.APIConfig{Host: tt.host, Port: 8080}}
			if got := cfg.Addr(); got != tt.want {
				t.Errorf("config Addr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateFromAPI(t *testing.T) {
	data := &resume.Resume{
		PersonalInfo: resume.PersonalInfo{Name: "Ada"},
		SocialLinks:  resume.SocialLinks{Email: "ada@example.com"},
	}

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t, withFetcher(&stubFetcher{data: data}))
		rec := env.do(t, http.MethodGet, "/generate-resume-from-api", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		got, err := env.repo.Get(context.Background(), rec.Header().Get("X-Render-ID"))
		if err != nil {
			t.Fatalf("history Get() error = %v", err)
		}
		if got.Origin != history.OriginAPI {
			t.Errorf("Origin = %q, want api", got.Origin)
		}
	})

	t.Run("source down", func(t *testing.T) {
		fetchErr := &source.StatusError{URL: "http://example.test", StatusCode: http.StatusInternalServerError}
		env := newTestEnv(t, withFetcher(&stubFetcher{err: fetchErr}))
		rec := env.do(t, http.MethodGet, "/generate-resume-from-api", "", nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
	})

	t.Run("source returns non-JSON", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><body>maintenance</body></html>")) //nolint:errcheck // Test upstream
		}))
		defer upstream.Close()

		env := newTestEnv(t, withFetcher(source.New(upstream.URL, time.Second)))
		rec := env.do(t, http.MethodGet, "/generate-resume-from-api", "", nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502: %s", rec.Code, rec.Body.String())
		}
		if e := decodeError(t, rec); e.Code != ErrCodeBadGateway {
			t.Errorf("code = %q, want %q", e.Code, ErrCodeBadGateway)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/generate-resume-from-api", "", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}

func TestRendersEndpoints(t *testing.T) {
	env := newTestEnv(t)

	for range 3 {
		if rec := env.do(t, http.MethodPost, "/generate-resume", validBody, nil); rec.Code != http.StatusOK {
			t.Fatalf("generate status = %d", rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/v1/renders?limit=2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	var list history.ListResult
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if list.Total != 3 || len(list.Renders) != 2 || list.Limit != 2 {
		t.Errorf("list = total %d, len %d, limit %d", list.Total, len(list.Renders), list.Limit)
	}

	id := list.Renders[0].ID
	rec = env.do(t, http.MethodGet, "/api/v1/renders/"+id, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/renders/does-not-exist", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing render status = %d, want 404", rec.Code)
	}

	for _, q := range []string{"status=exploded", "origin=fax", "limit=-1", "offset=abc"} {
		rec = env.do(t, http.MethodGet, "/api/v1/renders?"+q, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestRendersEndpoints_NoHistory(t *testing.T) {
	env := newTestEnv(t, withoutHistory())

	for _, path := range []string{"/api/v1/renders", "/api/v1/renders/abc"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", path, rec.Code)
		}
	}
	// Rendering still works.
	if rec := env.do(t, http.MethodPost, "/generate-resume", validBody, nil); rec.Code != http.StatusOK {
		t.Errorf("generate status = %d, want 200", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/generate-resume", validBody, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var m SystemMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Render.Concurrency != render.DefaultConcurrency {
		t.Errorf("Render.Concurrency = %d", m.Render.Concurrency)
	}
	if m.History == nil || m.History.Total != 1 || m.History.Succeeded != 1 {
		t.Errorf("History = %+v", m.History)
	}
	if m.Database == nil {
		t.Error("Database metrics missing")
	}
	if m.MQTT.Connected {
		t.Error("MQTT.Connected = true with no client")
	}
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t, withAuth())
	jwtCfg := env.srv.secCfg.JWT

	valid, err := IssueToken(jwtCfg, "cli", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	expired, err := IssueToken(jwtCfg, "cli", -time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	otherIssuer, err := IssueToken(config.JWTConfig{Secret: testSecret, Issuer: "someone-else"}, "cli", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	wrongKey, err := IssueToken(config.JWTConfig{Secret: strings.Repeat("k", 40), Issuer: "resumed"}, "cli", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + otherIssuer, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			rec := env.do(t, http.MethodPost, "/generate-resume", validBody, h)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	// Probes stay open.
	if rec := env.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", rec.Code)
	}
}

func TestIssueToken_Errors(t *testing.T) {
	if _, err := IssueToken(config.JWTConfig{}, "cli", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("IssueToken() error = %v, want ErrMissingSecret", err)
	}
	if _, err := IssueToken(config.JWTConfig{Secret: testSecret}, "", time.Hour); err == nil {
		t.Error("IssueToken() with empty subject: expected error")
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/generate-resume", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != ErrCodeNotFound {
		t.Errorf("code = %q", e.Code)
	}
}

func TestServerLifecycle(t *testing.T) {
	env := newTestEnv(t)

	if err := env.srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() before Start: expected error")
	}
	if err := env.srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := env.srv.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := env.srv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
