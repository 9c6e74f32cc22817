package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contactbook/internal/config"
)

var (
	testICS   = []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n")
	testVCard = []byte("BEGIN:VCARD\r\nVERSION:4.0\r\nFN:John\r\nEND:VCARD\r\n")
)

func do(t *testing.T, h http.Handler, method, path string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandler_ServingContent(t *testing.T) {
	srv := NewBookServer("0")
	srv.Update(testICS, testVCard)
	h := srv.Handler()

	tests := []struct {
		path string
		mime string
		body []byte
	}{
		{config.RouteRoot, config.MimeTextCalendar, testICS},
		{config.RouteCalendar, config.MimeTextCalendar, testICS},
		{config.RouteContacts, config.MimeTextVCard, testVCard},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, h, http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.mime, resp.Header.Get(config.HeaderContentType))
			assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
			assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
			assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestHandler_Head(t *testing.T) {
	srv := NewBookServer("0")
	srv.Update(testICS, testVCard)

	resp := do(t, srv.Handler(), http.MethodHead, config.RouteContacts, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "HEAD must not return a body")
}

func TestHandler_Caching(t *testing.T) {
	srv := NewBookServer("0")
	srv.Update(testICS, testVCard)
	h := srv.Handler()

	etag := do(t, h, http.MethodGet, config.RouteRoot, nil).Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	resp := do(t, h, http.MethodGet, config.RouteRoot, map[string]string{config.HeaderIfNoneMatch: etag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	otherTag := do(t, h, http.MethodGet, config.RouteContacts, nil).Header.Get(config.HeaderETag)
	assert.NotEqual(t, etag, otherTag, "Each document has its own ETag")
}

func TestHandler_IfModifiedSince(t *testing.T) {
	srv := NewBookServer("0")
	srv.Update(testICS, testVCard)
	h := srv.Handler()

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	resp := do(t, h, http.MethodGet, config.RouteRoot, map[string]string{config.HeaderIfModifiedSince: future})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
	resp = do(t, h, http.MethodGet, config.RouteRoot, map[string]string{config.HeaderIfModifiedSince: past})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, h, http.MethodGet, config.RouteRoot, map[string]string{config.HeaderIfModifiedSince: "garbage"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Unparsable dates are ignored")
}

func TestHandler_NotReady(t *testing.T) {
	resp := do(t, NewBookServer("0").Handler(), http.MethodGet, config.RouteRoot, nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewBookServer("0")
	srv.Update(testICS, testVCard)

	resp := do(t, srv.Handler(), http.MethodPost, config.RouteCalendar, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

func TestHandler_Metrics(t *testing.T) {
	srv := NewBookServer("0")
	srv.Update(testICS, testVCard)
	h := srv.Handler()

	do(t, h, http.MethodGet, config.RouteCalendar, nil)
	do(t, h, http.MethodGet, "/missing", nil)

	resp := do(t, h, http.MethodGet, config.RouteMetrics, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), `contactbook_http_requests_total{code="200",route="/birthdays.ics"} 1`)
	assert.Contains(t, string(body), `contactbook_http_requests_total{code="404",route="/missing"} 1`)
	assert.Contains(t, string(body), fmt.Sprintf(`contactbook_content_bytes{route="/contacts.vcf"} %d`, len(testVCard)))
}

// TestUpdate_Concurrent checks that readers never observe a torn update.
func TestUpdate_Concurrent(t *testing.T) {
	srv := NewBookServer("0")
	srv.Update(testICS, testVCard)
	h := srv.Handler()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			srv.Update([]byte(fmt.Sprintf("ICS-%d", i)), testVCard)
		}(i)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, config.RouteRoot, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()
}

func TestStart_Lifecycle(t *testing.T) {
	l, err := net.Listen("tcp", config.LocalhostBindAddr+":0")
	require.NoError(t, err)
	port := fmt.Sprint(l.Addr().(*net.TCPAddr).Port)
	require.NoError(t, l.Close())

	srv := NewBookServer(port)
	srv.Update(testICS, testVCard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	url := "http://" + config.LocalhostBindAddr + ":" + port + config.RouteCalendar
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(config.ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStart_InvalidPort(t *testing.T) {
	assert.EqualError(t, NewBookServer("").Start(context.Background()), config.ErrPortRequired)
	assert.EqualError(t, NewBookServer("99999").Start(context.Background()), config.ErrPortRange)
}
