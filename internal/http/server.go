// Package http exposes the REST surface: tasks, the merged month agenda, the
// daily schedule and the monthly statement. Month-shaped reads are cached per
// owner and invalidated by the mutations that touch them.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"agenda/internal/auth"
	"agenda/internal/cache"
	"agenda/internal/core"
	"agenda/internal/middleware/ratelimit"
	"agenda/internal/middleware/trace"
	"agenda/internal/services"
	"agenda/internal/storage"
)

// TransactionPublisher notifies the export worker that a transaction was
// created or deleted. A nil publisher disables the export pipeline.
type TransactionPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64, action string) error
}

type Server struct {
	http.Server

	repo      *storage.Repository
	publisher TransactionPublisher
	limiter   *ratelimit.Limiter

	agendaCache    *cache.LRU[[]services.AgendaItem]
	statementCache *cache.LRU[statementResponse]
	janitor        *cache.Janitor

	shutdownOnce sync.Once
}

func NewServer(addr string, repo *storage.Repository, publisher TransactionPublisher) *Server {
	router := mux.NewRouter()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: router,
		},
		repo:           repo,
		publisher:      publisher,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		agendaCache:    cache.NewLRU[[]services.AgendaItem](100, 5*time.Minute),
		statementCache: cache.NewLRU[statementResponse](100, 5*time.Minute),
	}
	s.janitor = cache.NewJanitor(s.agendaCache, s.statementCache)
	s.janitor.Start(10 * time.Minute)

	router.Use(trace.Middleware, securityHeaders)

	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	api.Use(auth.Middleware(repo), s.rateLimitMutations)

	api.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.handleGetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.handleUpdateTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.handleDeleteTask).Methods(http.MethodDelete)

	api.HandleFunc("/calendar/events", s.handleMonthAgenda).Methods(http.MethodGet)
	api.HandleFunc("/calendar/events", s.handleCreateEvent).Methods(http.MethodPost)
	api.HandleFunc("/calendar/events/{id:[0-9]+}", s.handleUpdateEvent).Methods(http.MethodPatch)
	api.HandleFunc("/calendar/events/{id}", s.handleDeleteAgendaItem).Methods(http.MethodDelete)

	api.HandleFunc("/daily", s.handleDailyView).Methods(http.MethodGet)
	api.HandleFunc("/daily/schedule", s.handleDaySchedule).Methods(http.MethodGet)
	api.HandleFunc("/daily/appointment", s.handleCreateAppointment).Methods(http.MethodPost)
	api.HandleFunc("/daily/appointment/{id:[0-9]+}", s.handleUpdateAppointment).Methods(http.MethodPatch)
	api.HandleFunc("/daily/appointment/{id:[0-9]+}", s.handleDeleteAppointment).Methods(http.MethodDelete)

	api.HandleFunc("/finances", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/finances", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/finances/monthly", s.handleMonthlyStatement).Methods(http.MethodGet)
	api.HandleFunc("/finances/{id:[0-9]+}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Shutdown stops the background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// rateLimitMutations throttles writes per client; reads pass through.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func monthKey(ownerID string, year, month int) string {
	return fmt.Sprintf("%s|%04d-%02d", ownerID, year, month)
}

func (s *Server) invalidateAgenda(ownerID string, d core.Date) {
	s.agendaCache.Delete(monthKey(ownerID, d.Year(), int(d.Month())))
}

func (s *Server) invalidateStatement(ownerID string, d core.Date) {
	s.statementCache.Delete(monthKey(ownerID, d.Year(), int(d.Month())))
}
