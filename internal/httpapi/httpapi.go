// Package httpapi is the HTTP surface: player creation, name validation,
// renaming, and the WebSocket upgrade endpoint, wired together with a
// single shared middleware chain.
package httpapi

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"territoryd/internal/bus"
	"territoryd/internal/lobby"
	"territoryd/internal/middleware"
	"territoryd/internal/namegen"
	"territoryd/internal/rate"
	"territoryd/internal/registry"
)

// NameStore is the subset of *namestore.Store the HTTP surface needs.
// Handlers depend on this interface rather than the concrete pgx-backed
// type so they can be exercised against an in-memory fake in tests.
type NameStore interface {
	Create(ctx context.Context, uuid, name string) error
	Lookup(ctx context.Context, uuid string) (string, error)
	Update(ctx context.Context, uuid, newName string) error
	NameExists(ctx context.Context, name string) (bool, error)
}

// Server bundles the collaborators every handler needs.
type Server struct {
	JWTSecret     []byte
	MinNameLength int
	MaxNameLength int
	PingInterval  time.Duration
	PingTimeout   time.Duration
	MaxQueued     int
	ChatSnapshot  int

	Names  NameStore
	Reg    *registry.Registry
	Table  *lobby.Table
	Global *bus.Broadcaster
	Chat   *bus.ChatLog
	Limit  *rate.Limiter

	AcceptOptions websocket.AcceptOptions

	mu  sync.Mutex
	rng *rand.Rand
}

// NewServer returns a Server seeded with a private math/rand source (the
// random-name generator does not need cryptographic randomness).
func NewServer() *Server {
	return &Server{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// allocateName returns a random name. When persisted is true, it checks
// candidates against the Name Store and tries up to 20 before giving up;
// when false, it returns the first candidate unchecked. It never writes
// to the Name Store itself.
func (s *Server) allocateName(ctx context.Context, persisted bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !persisted {
		return namegen.New(s.rng), nil
	}

	name, ok := namegen.Unused(s.rng, func(candidate string) bool {
		exists, err := s.Names.NameExists(ctx, candidate)
		return err == nil && exists
	}, 20)
	if !ok {
		return "", errors.New("httpapi: could not allocate an unused name")
	}
	return name, nil
}

// Routes builds the full middleware-wrapped mux.
func (s *Server) Routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /players/new", s.handleNewPlayer)
	mux.HandleFunc("GET /players/name/random", s.handleRandomName)
	mux.HandleFunc("POST /players/name/is_valid", s.handleIsValidName)
	mux.HandleFunc("PUT /players/{uuid}", s.handleRenamePlayer)
	mux.Handle("GET /ws/{uuid}", middleware.Subprotocols(http.HandlerFunc(s.handleWebsocket)))

	return middleware.Chain(mux, middleware.RequestIDMiddleware, middleware.NewCORS(allowedOrigins), middleware.NewAccessLog("territoryd"))
}
