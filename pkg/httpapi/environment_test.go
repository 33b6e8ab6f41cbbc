package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"configserver/pkg/config"
	"configserver/pkg/encryption"
	"configserver/pkg/gitrepo"
	"configserver/pkg/telemetry/logging"
	"configserver/pkg/telemetry/metrics"
)

// newEnvTestServer lays down a one-commit git repository carrying property
// files for the "myapp" application and wires it into a Server exactly as
// cmd/configserver/run.go does, minus process-level concerns. It returns
// the server and the name of the branch git init checked out by default.
func newEnvTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	files := map[string]string{
		"application.yml": "shared:\n  owner: platform\n",
		"myapp-prod.yml":  "message: hello from prod\nserver:\n  port: 8443\n",
		"myapp.yml":       "message: hello from default\n",
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := wt.Add("."); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	branch := head.Name().Short()

	cfg := &config.Config{}
	cfg.Git = config.GitConfig{
		URI:                "file://" + dir,
		WorkingDirectory:   dir,
		DefaultLabel:       branch,
		RefreshRateSeconds: -1,
	}
	cfg.Server.CORS.AllowedOrigins = []string{"*"}
	cfg.Server.CORS.AllowedMethods = []string{"GET"}

	gitRepo := gitrepo.NewRepository(&cfg.Git, nil, testEnvLogger())
	collector := metrics.NewCollector(&cfg.Metrics, nil)

	return NewServer(cfg, gitRepo, encryption.NewService(), collector, nil, testEnvLogger()), branch
}

func testEnvLogger() *logging.Logger {
	log, err := logging.New(logging.Config{Level: "error", Format: "text", Writer: io.Discard})
	if err != nil {
		panic(err)
	}
	return log
}

func TestHandleEnvironmentResolvesDefaultLabel(t *testing.T) {
	srv, _ := newEnvTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/myapp/prod", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /myapp/prod: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env Environment
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Name != "myapp" {
		t.Errorf("expected name myapp, got %q", env.Name)
	}
	if env.Label == "" {
		t.Errorf("expected a resolved label, got empty")
	}
	if len(env.PropertySources) != 3 {
		t.Fatalf("expected 3 property sources (myapp-prod, myapp, application), got %d: %+v", len(env.PropertySources), env.PropertySources)
	}
	if got := env.PropertySources[0].Source["message"]; got != "hello from prod" {
		t.Errorf("expected most-specific source first with message %q, got %v", "hello from prod", got)
	}
	if got := env.PropertySources[2].Source["shared.owner"]; got != "platform" {
		t.Errorf("expected flattened shared.owner=platform in least-specific source, got %v", got)
	}
}

func TestHandleEnvironmentExplicitLabel(t *testing.T) {
	srv, branch := newEnvTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/myapp/prod/"+branch, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /myapp/prod/%s: expected 200, got %d: %s", branch, rec.Code, rec.Body.String())
	}

	var env Environment
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Label != branch {
		t.Errorf("expected label %q, got %q", branch, env.Label)
	}
	if env.Version == "" {
		t.Error("expected a resolved git revision")
	}
}

func TestHandleEnvironmentUnknownLabelReturnsError(t *testing.T) {
	srv, _ := newEnvTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/myapp/prod/does-not-exist", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Fatalf("expected a non-200 status for an unknown label, got %d: %s", rec.Code, rec.Body.String())
	}
}
