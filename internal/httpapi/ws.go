package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"territoryd/internal/conn"
	errs "territoryd/internal/errors"
	"territoryd/internal/namestore"
)

// handleWebsocket implements GET /ws/{uuid}: verifies the uuid is
// registered and not already connected, checks the bearer token
// (smuggled via Sec-WebSocket-Protocol by the Subprotocols middleware),
// then upgrades and runs a conn.Handler for the connection's lifetime.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("uuid")
	if id == "" {
		errs.WriteHTTPError(ctx, w, errs.MissingURLQueryError("uuid"))
		return
	}

	name, err := s.Names.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, namestore.ErrNotFound) {
			errs.WriteHTTPError(ctx, w, errs.UnauthorizedError("unknown player uuid"))
			return
		}
		errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
		return
	}

	if _, alreadyConnected := s.Reg.Get(id); alreadyConnected {
		errs.WriteHTTPError(ctx, w, errs.UnauthorizedError("player already connected"))
		return
	}

	token := bearerToken(r)
	if token == "" {
		errs.WriteHTTPError(ctx, w, errs.UnauthorizedError("missing bearer token"))
		return
	}
	if err := s.checkToken(token, id); err != nil {
		errs.WriteHTTPError(ctx, w, errs.InvalidTokenError(err))
		return
	}

	c, err := websocket.Accept(w, r, &s.AcceptOptions)
	if err != nil {
		slog.ErrorContext(ctx, "ws accept", slog.Any("error", err))
		return
	}

	h := &conn.Handler{
		Conn: c, UUID: id, Name: name,
		Reg: s.Reg, Table: s.Table, Global: s.Global, GlobalChat: s.Chat,
		Cfg: conn.Config{
			MaxQueued: s.MaxQueued, ChatSnapshot: s.ChatSnapshot,
			PingInterval: s.PingInterval, PingTimeout: s.PingTimeout,
		},
	}
	if err := h.Run(ctx); err != nil {
		slog.InfoContext(ctx, "connection handler exited", slog.String("uuid", id), slog.Any("error", err))
	}
}
