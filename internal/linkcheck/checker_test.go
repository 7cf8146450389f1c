package linkcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) (*Checker, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewChecker(WithHTTPClient(srv.Client()), WithRate(1000)), srv
}

func TestCheck_OK(t *testing.T) {
	var gotUA string
	c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	})

	status, err := c.Check(context.Background(), srv.URL+"/prl/abstract/10.1103/PhysRevLett.116.231301")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if status.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", status.StatusCode)
	}
	if status.Method != http.MethodHead {
		t.Errorf("Method = %s, want HEAD", status.Method)
	}
	if gotUA != UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, UserAgent)
	}
}

func TestCheck_FollowsRedirect(t *testing.T) {
	c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	status, err := c.Check(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if status.FinalURL != srv.URL+"/new" {
		t.Errorf("FinalURL = %q, want %q", status.FinalURL, srv.URL+"/new")
	}
}

func TestCheck_FallsBackToGet(t *testing.T) {
	c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte("<html></html>"))
	})

	status, err := c.Check(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if status.Method != http.MethodGet {
		t.Errorf("Method = %s, want GET", status.Method)
	}
}

func TestCheck_StatusErrors(t *testing.T) {
	tests := []struct {
		code     int
		sentinel error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusGone, ErrNotFound},
		{http.StatusForbidden, ErrBlocked},
		{http.StatusUnauthorized, ErrBlocked},
		{http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			})

			_, err := c.Check(context.Background(), srv.URL)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Check() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestCheck_ServerError(t *testing.T) {
	c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Check(context.Background(), srv.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Check() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", statusErr.StatusCode)
	}
	if IsNotFound(err) || IsRateLimited(err) {
		t.Error("502 should be neither not-found nor rate-limited")
	}
}

func TestCheck_NoRetry(t *testing.T) {
	var calls atomic.Int32
	c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := c.Check(context.Background(), srv.URL); err == nil {
		t.Fatal("Check() should fail on 503")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestCheck_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	link := srv.URL
	srv.Close()

	c := NewChecker(WithRate(1000))
	if _, err := c.Check(context.Background(), link); !errors.Is(err, ErrNetworkError) {
		t.Errorf("Check() error = %v, want ErrNetworkError", err)
	}
}

func TestCheck_ContextCancelled(t *testing.T) {
	c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Check(ctx, srv.URL); err == nil {
		t.Error("Check() with cancelled context should fail")
	}
}

func TestCheckAll(t *testing.T) {
	c, srv := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	results := c.CheckAll(context.Background(), []string{srv.URL + "/a", srv.URL + "/missing", srv.URL + "/b"})
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Err, results[2].Err)
	}
	if !IsNotFound(results[1].Err) {
		t.Errorf("results[1].Err = %v, want not found", results[1].Err)
	}
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewChecker(WithHTTPClient(srv.Client()), WithRate(20))

	start := time.Now()
	c.CheckAll(context.Background(), []string{srv.URL, srv.URL, srv.URL})
	// Burst of one: the second and third requests each wait ~50ms
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 checks at 20/s took %v, want >= 80ms", elapsed)
	}
}

func TestWithRate_IgnoresNonPositive(t *testing.T) {
	c := NewChecker(WithRate(0))
	if c.limiter.Limit() != DefaultRate {
		t.Errorf("Limit() = %v, want %v", c.limiter.Limit(), DefaultRate)
	}
}
