package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/texforge/resumed/internal/resume"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"personalInfo": {"name": "Remote Person"},
			"socialLinks": {"github": "https://github.com/remote"},
			"workExperience": [{"role": "Dev", "company": "Co"}],
			"skills": [{"type": "Go", "values": ["chi"]}]
		}`))
	}))
	defer srv.Close()

	r, err := New(srv.URL, time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if r.PersonalInfo.Name != "Remote Person" {
		t.Errorf("Name = %q", r.PersonalInfo.Name)
	}
	if len(r.WorkEx) != 1 || r.WorkEx[0].Company != "Co" {
		t.Errorf("WorkEx = %+v", r.WorkEx)
	}
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Fetch(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Fetch() error = %v, want ErrUnavailable", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("Fetch() error = %v, want StatusError 404", err)
	}
}

func TestFetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Fetch(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, resume.ErrInvalidJSON) {
		t.Errorf("Fetch() error = %v, want resume.ErrInvalidJSON", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := New(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Fetch() error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Fetch() error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch() took %v, timeout not applied", elapsed)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := New(url, time.Second).Fetch(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrUnavailable", err)
	}
}

func TestFetch_BadURL(t *testing.T) {
	f := &Fetcher{URL: "://bad"}
	if _, err := f.Fetch(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrUnavailable", err)
	}
}
