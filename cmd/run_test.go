package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/warpdl/cookiekeeper/internal/driver"
	"github.com/warpdl/cookiekeeper/pkg/logger"
)

var errStop = errors.New("stop")

type stubProcess struct{ pid int }

func (p stubProcess) Pid() int { return p.pid }

// fakeChromedriver answers just enough of the WebDriver protocol for one
// signed-in session. The first sessionFailures session requests fail.
type fakeChromedriver struct {
	mu              sync.Mutex
	sessionFailures int
	sessionCalls    int
	navigations     []string
	currentURL      string
}

func (f *fakeChromedriver) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeChromedriver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/session":
		f.sessionCalls++
		if f.sessionCalls <= f.sessionFailures {
			f.writeJSON(w, http.StatusInternalServerError, map[string]any{
				"value": map[string]string{"error": "session not created", "message": "chrome not reachable"},
			})
			return
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"value": map[string]any{"sessionId": "s1"}})
	case r.Method == http.MethodPost && r.URL.Path == "/session/s1/url":
		var body struct {
			URL string `json:"url"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.navigations = append(f.navigations, body.URL)
		f.currentURL = body.URL
		f.writeJSON(w, http.StatusOK, map[string]any{"value": nil})
	case r.Method == http.MethodGet && r.URL.Path == "/session/s1/url":
		f.writeJSON(w, http.StatusOK, map[string]any{"value": f.currentURL})
	case r.Method == http.MethodPost && r.URL.Path == "/session/s1/element":
		f.writeJSON(w, http.StatusNotFound, map[string]any{
			"value": map[string]string{"error": "no such element", "message": "Unable to locate element"},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/session/s1/cookie":
		f.writeJSON(w, http.StatusOK, map[string]any{"value": []map[string]any{{
			"name":     "SID",
			"value":    "abc",
			"domain":   ".youtube.com",
			"path":     "/",
			"secure":   true,
			"httpOnly": true,
			"expiry":   1700000000,
			"sameSite": "Lax",
		}}})
	default:
		f.writeJSON(w, http.StatusNotFound, map[string]any{
			"value": map[string]string{"error": "unknown command", "message": r.Method + " " + r.URL.Path},
		})
	}
}

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	site, err := url.Parse("https://www.youtube.com/")
	if err != nil {
		t.Fatal(err)
	}
	return &Config{
		DriverPath:     "chromedriver",
		JarPath:        "/jar/cookies.txt",
		SiteURL:        site,
		ExportInterval: 6 * time.Hour,
		ConnectRetry:   5 * time.Second,
		LoginPoll:      5 * time.Second,
		RenderGrace:    10 * time.Second,
	}
}

func newTestKeeper(t *testing.T, srv *httptest.Server) (*keeper, *logger.MockLogger, *[]time.Duration) {
	t.Helper()
	port := srv.Listener.Addr().(*net.TCPAddr).Port
	log := logger.NewMockLogger()
	k := newKeeper(newTestConfig(t), log)
	k.fs = afero.NewMemMapFs()
	k.reservePort = func() (int, error) { return port, nil }
	k.spawnDriver = func(cfg driver.Config, p int) (driverProcess, error) {
		if p != port {
			t.Errorf("expected driver on port %d, got %d", port, p)
		}
		return stubProcess{pid: 4242}, nil
	}
	var slept []time.Duration
	k.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		if d == k.cfg.ExportInterval {
			return errStop
		}
		return nil
	}
	return k, log, &slept
}

func TestKeeperRun_ExportsSignedInSession(t *testing.T) {
	fake := &fakeChromedriver{sessionFailures: 2}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	k, log, slept := newTestKeeper(t, srv)
	err := k.run(context.Background())
	if !errors.Is(err, errStop) {
		t.Fatalf("expected errStop, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "export cookies:") {
		t.Errorf("expected export stage in error, got %v", err)
	}

	data, err := afero.ReadFile(k.fs, "/jar/cookies.txt")
	if err != nil {
		t.Fatalf("jar not written: %v", err)
	}
	want := "youtube.com\tTRUE\t/\tTRUE\t1700000000\tSID\tabc\n"
	if string(data) != want {
		t.Fatalf("jar mismatch:\n got %q\nwant %q", data, want)
	}

	wantSleeps := []time.Duration{5 * time.Second, 5 * time.Second, 10 * time.Second, 6 * time.Hour}
	if len(*slept) != len(wantSleeps) {
		t.Fatalf("expected sleeps %v, got %v", wantSleeps, *slept)
	}
	for i, d := range wantSleeps {
		if (*slept)[i] != d {
			t.Errorf("sleep %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}

	if len(log.WarningCalls) != 2 {
		t.Errorf("expected 2 connect warnings, got %v", log.WarningCalls)
	}
	if fake.sessionCalls != 3 {
		t.Errorf("expected 3 session attempts, got %d", fake.sessionCalls)
	}
	if len(fake.navigations) != 2 {
		t.Errorf("expected gate and export navigations, got %v", fake.navigations)
	}
	for _, msg := range append(log.InfoCalls, log.WarningCalls...) {
		if strings.Contains(msg, "abc") {
			t.Errorf("cookie value leaked into log: %q", msg)
		}
	}
	if k.proc.Pid() != 4242 {
		t.Errorf("expected driver process to be kept, got pid %d", k.proc.Pid())
	}
}

func TestKeeperRun_StageFailures(t *testing.T) {
	srv := httptest.NewServer(&fakeChromedriver{})
	defer srv.Close()

	t.Run("reserve", func(t *testing.T) {
		k, _, _ := newTestKeeper(t, srv)
		k.reservePort = func() (int, error) { return 0, errors.New("no ports") }
		err := k.run(context.Background())
		if err == nil || !strings.HasPrefix(err.Error(), "reserve driver port:") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("spawn", func(t *testing.T) {
		k, _, _ := newTestKeeper(t, srv)
		spawnErr := errors.New("not found")
		k.spawnDriver = func(driver.Config, int) (driverProcess, error) { return nil, spawnErr }
		err := k.run(context.Background())
		if !errors.Is(err, spawnErr) || !strings.HasPrefix(err.Error(), "spawn driver:") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("connect canceled", func(t *testing.T) {
		k, _, _ := newTestKeeper(t, srv)
		k.reservePort = func() (int, error) {
			return reserveClosedPort(t), nil
		}
		k.sleep = func(ctx context.Context, d time.Duration) error { return context.Canceled }
		err := k.run(context.Background())
		if !errors.Is(err, context.Canceled) || !strings.HasPrefix(err.Error(), "connect to driver:") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestKeeperRun_GateErrorIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	fake := &fakeChromedriver{}
	mux.Handle("/", fake)
	mux.HandleFunc("/session/s1/element", func(w http.ResponseWriter, r *http.Request) {
		fake.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"value": map[string]string{"error": "unknown error", "message": "tab crashed"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	k, _, _ := newTestKeeper(t, srv)
	err := k.run(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "sign in:") {
		t.Fatalf("expected sign in failure, got %v", err)
	}
	if _, statErr := k.fs.Stat("/jar/cookies.txt"); statErr == nil {
		t.Error("jar must not be written when sign in fails")
	}
}

// reserveClosedPort returns a port nothing listens on.
func reserveClosedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func TestNewLogger(t *testing.T) {
	mfs := afero.NewMemMapFs()

	l, fatal, err := newLogger(mfs, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := l.(*logger.StandardLogger); !ok {
		t.Errorf("expected console logger, got %T", l)
	}
	if _, ok := fatal.(*logger.NopLogger); !ok {
		t.Errorf("expected fatal errors to be discarded without a log file, got %T", fatal)
	}

	l, fatal, err = newLogger(mfs, "/var/log/cookiekeeper.log")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := l.(*logger.MultiLogger); !ok {
		t.Fatalf("expected multi logger, got %T", l)
	}
	if _, ok := fatal.(*logger.StandardLogger); !ok {
		t.Fatalf("expected fatal errors to go to the file logger, got %T", fatal)
	}
	l.Info("Wrote %s", "cookies.txt")
	fatal.Error("export cookies: %s", "disk full")
	if err := l.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	data, err := afero.ReadFile(mfs, "/var/log/cookiekeeper.log")
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] Wrote cookies.txt") {
		t.Fatalf("unexpected log file content: %q", data)
	}
	if !strings.Contains(string(data), "[ERROR] export cookies: disk full") {
		t.Fatalf("fatal error missing from log file: %q", data)
	}
}

func TestRun_FatalErrorLoggedToFileOnce(t *testing.T) {
	mfs := useMemFs(t)
	app, _, stderr := newTestApp(t)

	err := app.Run([]string{"cookiekeeper",
		"--chromedriver-path", "/nonexistent/cookiekeeper-test-driver",
		"--log-file", "/logs/cookiekeeper.log",
	})
	if err == nil || !strings.HasPrefix(err.Error(), "spawn driver:") {
		t.Fatalf("expected spawn failure, got %v", err)
	}
	if stderr.Len() != 0 {
		t.Errorf("the run action must leave printing the error to main, got %q", stderr.String())
	}

	data, readErr := afero.ReadFile(mfs, "/logs/cookiekeeper.log")
	if readErr != nil {
		t.Fatalf("log file missing: %v", readErr)
	}
	if n := strings.Count(string(data), "[ERROR]"); n != 1 {
		t.Fatalf("expected the error logged once, got %d in %q", n, data)
	}
	if !strings.Contains(string(data), "[ERROR] spawn driver:") {
		t.Fatalf("unexpected log file content: %q", data)
	}
}
