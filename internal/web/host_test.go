package web

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"interactive-choice/internal/api"
	"interactive-choice/internal/app"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHandlerServesEmbeddedPage(t *testing.T) {
	h := NewHost(app.New("{}", io.Discard), Options{})
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	for _, sel := range []string{"#title", "#body-markdown", "#choices-container", "#custom-text", "#skip-btn", "#titlebar-close"} {
		assert.Equal(t, 1, doc.Find(sel).Length(), sel)
	}
}

func TestHandlerServesAssets(t *testing.T) {
	h := NewHost(app.New("{}", io.Discard), Options{})
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	for path, want := range map[string]string{
		"/app.js":    "X-Choice-Token",
		"/style.css": ".choice-btn",
	} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), want, path)
	}
}

func TestTokenIsUniquePerHost(t *testing.T) {
	a := NewHost(app.New("{}", io.Discard), Options{})
	b := NewHost(app.New("{}", io.Discard), Options{})
	assert.NotEmpty(t, a.Token())
	assert.NotEqual(t, a.Token(), b.Token())
}

// startHost runs h in the background and returns the page base URL.
func startHost(t *testing.T, ctx context.Context, a *app.App, opts Options) (*Host, string, <-chan error) {
	t.Helper()
	urls := make(chan string, 1)
	opts.Opener = func(url string) error {
		urls <- url
		return nil
	}
	h := NewHost(a, opts)

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	select {
	case url := <-urls:
		base, _, ok := strings.Cut(url, "/?token=")
		require.True(t, ok, url)
		return h, base, done
	case err := <-done:
		t.Fatalf("host exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("host did not start")
	}
	return nil, "", nil
}

func post(t *testing.T, h *Host, url, body string) {
	t.Helper()
	req, err := http.NewRequest("POST", url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(api.TokenHeader, h.Token())
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("host did not stop")
	}
}

func TestRunStopsAfterSubmit(t *testing.T) {
	out := &syncBuffer{}
	a := app.New("{}", out)
	h, base, done := startHost(t, context.Background(), a, Options{})

	post(t, h, base+"/api/submit", `{"result":"{\"choice\":\"yes\",\"index\":0,\"custom_input\":null}"}`)
	waitDone(t, done)

	assert.Equal(t, `{"choice":"yes","index":0,"custom_input":null}`+"\n", out.String())
}

func TestRunStopsAfterClose(t *testing.T) {
	out := &syncBuffer{}
	a := app.New("{}", out)
	h, base, done := startHost(t, context.Background(), a, Options{})

	post(t, h, base+"/api/close", "")
	waitDone(t, done)

	assert.Equal(t, app.FallbackResult+"\n", out.String())
}

func TestRunCancelledCountsAsClose(t *testing.T) {
	out := &syncBuffer{}
	a := app.New("{}", out)
	ctx, cancel := context.WithCancel(context.Background())
	_, _, done := startHost(t, ctx, a, Options{})

	cancel()
	waitDone(t, done)

	assert.Equal(t, app.FallbackResult+"\n", out.String())
}

func TestRunIdlePageCountsAsClose(t *testing.T) {
	out := &syncBuffer{}
	a := app.New("{}", out)
	h, base, done := startHost(t, context.Background(), a, Options{IdleTimeout: 200 * time.Millisecond})

	post(t, h, base+"/api/ping", "")
	waitDone(t, done)

	assert.Equal(t, app.FallbackResult+"\n", out.String())
}

func TestRunWaitsForPageBeforeIdleCheck(t *testing.T) {
	out := &syncBuffer{}
	a := app.New("{}", out)
	ctx, cancel := context.WithCancel(context.Background())
	h, base, done := startHost(t, ctx, a, Options{IdleTimeout: 100 * time.Millisecond})

	// No page has connected yet, so the watchdog must not fire.
	time.Sleep(400 * time.Millisecond)
	assert.False(t, a.Reported())

	post(t, h, base+"/api/submit", `{"result":"late but fine"}`)
	waitDone(t, done)
	cancel()

	assert.Equal(t, "late but fine\n", out.String())
}

func leave(t *testing.T, h *Host, base string) {
	t.Helper()
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Post(base+"/api/leave?token="+h.Token(), "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRunLeaveCountsAsCloseAfterGrace(t *testing.T) {
	out := &syncBuffer{}
	a := app.New("{}", out)
	h, base, done := startHost(t, context.Background(), a, Options{
		IdleTimeout: time.Hour,
		LeaveGrace:  100 * time.Millisecond,
	})

	post(t, h, base+"/api/ping", "")
	leave(t, h, base)
	waitDone(t, done)

	assert.Equal(t, app.FallbackResult+"\n", out.String())
}

func TestRunReloadWithinGraceKeepsWindow(t *testing.T) {
	out := &syncBuffer{}
	a := app.New("{}", out)
	h, base, done := startHost(t, context.Background(), a, Options{
		IdleTimeout: time.Hour,
		LeaveGrace:  300 * time.Millisecond,
	})

	leave(t, h, base)
	post(t, h, base+"/api/ping", "")
	time.Sleep(600 * time.Millisecond)
	assert.False(t, a.Reported())

	post(t, h, base+"/api/submit", `{"result":"after reload"}`)
	waitDone(t, done)

	assert.Equal(t, "after reload\n", out.String())
}

func TestDefaultLeaveGrace(t *testing.T) {
	h := NewHost(app.New("{}", io.Discard), Options{})
	assert.Equal(t, defaultLeaveGrace, h.opts.LeaveGrace)
}
