package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-contactbook/internal/config"
)

// cacheItem stores a rendered document and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
	mime         string
}

// BookServer serves the birthday calendar and the vCard export of an address
// book. It never touches the AddressBook itself: callers publish rendered
// snapshots through Update, which keeps the book single-owner.
type BookServer struct {
	// Documents are swapped atomically so readers never see a partial update.
	calendar atomic.Pointer[cacheItem]
	contacts atomic.Pointer[cacheItem]

	Port    string
	metrics *Metrics
	gather  prometheus.Gatherer
}

// NewBookServer creates a server with its own metrics registry.
func NewBookServer(port string) *BookServer {
	reg := prometheus.NewRegistry()
	return &BookServer{
		Port:    port,
		metrics: NewMetrics(reg),
		gather:  reg,
	}
}

// Handler returns the HTTP routes of the server.
func (s *BookServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	})

	calendar := s.serve(&s.calendar)
	contacts := s.serve(&s.contacts)
	for _, route := range []string{config.RouteRoot, config.RouteCalendar} {
		r.Get(route, calendar)
		r.Head(route, calendar)
	}
	r.Get(config.RouteContacts, contacts)
	r.Head(config.RouteContacts, contacts)
	r.Handle(config.RouteMetrics, promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))

	return r
}

// Start listens on the loopback interface and blocks until ctx is cancelled.
func (s *BookServer) Start(ctx context.Context) error {
	if err := config.ValidatePort(s.Port); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces both served documents.
func (s *BookServer) Update(calendar, contacts []byte) {
	s.calendar.Store(s.newItem(config.RouteCalendar, calendar, config.MimeTextCalendar))
	s.contacts.Store(s.newItem(config.RouteContacts, contacts, config.MimeTextVCard))
}

func (s *BookServer) newItem(route string, data []byte, mime string) *cacheItem {
	hash := sha256.Sum256(data)
	item := &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
		mime:         mime,
	}
	s.metrics.ObserveContent(route, len(data))

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
	)
	return item
}

// serve returns a handler for one cached document with conditional GET support.
func (s *BookServer) serve(slot *atomic.Pointer[cacheItem]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := slot.Load()
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(config.HeaderContentType, item.mime)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
			clientTime, err1 := time.Parse(http.TimeFormat, since)
			serverTime, err2 := time.Parse(http.TimeFormat, item.lastModified)
			if err1 == nil && err2 == nil && !serverTime.After(clientTime) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// observe counts every request by its matched route pattern.
func (s *BookServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, status)
	})
}
