// Package conn implements the per-connection handler: the
// inbound/outbound goroutine pair plus the keepalive ping goroutine that
// together own one player's WebSocket for the life of the connection.
package conn

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	"territoryd/internal/bus"
	"territoryd/internal/lobby"
	"territoryd/internal/registry"
	"territoryd/internal/wire"
)

// Config bundles the tunables a Handler needs beyond its collaborators.
type Config struct {
	MaxQueued    int
	ChatSnapshot int
	PingInterval time.Duration
	PingTimeout  time.Duration
}

// Handler owns one connected player's WebSocket from upgrade to close.
type Handler struct {
	Conn   *websocket.Conn
	UUID   string
	Name   string
	Reg        *registry.Registry
	Table      *lobby.Table
	Global     *bus.Broadcaster
	GlobalChat *bus.ChatLog
	Cfg        Config
}

// Run registers the player, drives the inbound/outbound/keepalive
// goroutines until one ends, then tears the connection down. It returns
// once teardown is complete.
func (h *Handler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	player := h.Reg.Connect(h.UUID, h.Name)
	inbox := make(chan bus.Message, 32)
	player.SetPrivate(inbox)
	h.Global.Subscribe(h.UUID, inbox)

	// Global chat sync is per-connection, not broadcast: sent once, right
	// after registry insertion, on the joining player's own channel.
	player.Send(bus.GlobalChatSync(h.GlobalChat.Snapshot(h.Cfg.ChatSnapshot)))

	slog.InfoContext(ctx, "player connected", "uuid", h.UUID, "name", h.Name)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.inboundLoop(gctx, player) })
	g.Go(func() error { return h.outboundLoop(gctx, inbox) })
	g.Go(func() error { return h.keepalive(gctx) })

	err := g.Wait()
	cancel()
	h.teardown(player)
	return err
}

// inboundLoop reads text frames and dispatches each parsed command.
// Malformed frames are ignored, never fatal.
func (h *Handler) inboundLoop(ctx context.Context, player *registry.Player) error {
	for {
		typ, data, err := h.Conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			return errors.New("conn: unexpected binary frame")
		}

		cmd, err := wire.Parse(string(data))
		if err != nil {
			continue
		}
		h.dispatch(ctx, player, cmd)
	}
}

func (h *Handler) dispatch(ctx context.Context, player *registry.Player, cmd wire.Command) {
	switch cmd.Tag {
	case wire.CmdMove:
		queue := player.EnqueueMove(cmd.Move, h.Cfg.MaxQueued)
		coord, _ := player.Coord()
		player.Send(bus.QueuedMoves(bus.MovesView{QueuedMoves: queue, XY: [2]int{coord.X, coord.Y}}))

	case wire.CmdJoinLobby:
		if err := h.Table.Join(ctx, h.Reg, h.Global, h.UUID, cmd.LobbyID); err != nil {
			slog.DebugContext(ctx, "joinLobby rejected", "uuid", h.UUID, "lobby", cmd.LobbyID, "err", err)
		}

	case wire.CmdPing:
		player.Send(bus.Pong())

	case wire.CmdSendGlobalMessage:
		msg := bus.ChatMessage{Poster: player.Name, Message: cmd.Text}
		h.GlobalChat.Append(msg)
		h.Global.Send(ctx, bus.GlobalChatNew(msg))

	case wire.CmdSendLobbyMessage:
		id, ok := player.LobbyID()
		if !ok {
			return
		}
		l, ok := h.Table.Get(id)
		if !ok {
			return
		}
		msg := bus.ChatMessage{Poster: player.Name, Message: cmd.Text}
		l.AppendChat(msg)
		l.Broadcast.Send(ctx, bus.LobbyChatNew(msg))
	}
}

// outboundLoop forwards every message from inbox to the WebSocket. A
// JoinLobby frame observed in the stream is treated specially: the
// handler resubscribes inbox to the newly joined lobby's broadcaster
// before forwarding it.
func (h *Handler) outboundLoop(ctx context.Context, inbox chan bus.Message) error {
	var currentLobby *int

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-inbox:
			if !ok {
				return nil
			}
			if m.Verb == bus.VerbJoinLobby {
				if currentLobby != nil {
					if l, ok := h.Table.Get(*currentLobby); ok {
						l.Broadcast.Unsubscribe(h.UUID)
					}
				}
				if id, err := strconv.Atoi(m.Scalar); err == nil {
					if l, ok := h.Table.Get(id); ok {
						l.Broadcast.Subscribe(h.UUID, inbox)
						currentLobby = &id
					}
				}
			}
			frame, err := wire.Encode(m)
			if err != nil {
				slog.WarnContext(ctx, "failed to encode outbound message", "verb", m.Verb, "err", err)
				continue
			}
			if err := h.Conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
				return err
			}
		}
	}
}

// keepalive pings the transport on PingInterval and fails the connection
// if the round trip does not complete within PingTimeout.
func (h *Handler) keepalive(ctx context.Context) error {
	if h.Cfg.PingInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(h.Cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, h.Cfg.PingTimeout)
			err := h.Conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// teardown applies the disconnect rule: InGame/StartingSoon members
// stay in their lobby (their tiles persist); AwaitingPlayers members are
// removed. The player is always removed from the registry.
func (h *Handler) teardown(player *registry.Player) {
	if id, ok := player.LobbyID(); ok {
		if l, ok := h.Table.Get(id); ok {
			l.Broadcast.Unsubscribe(h.UUID)
			if l.Status() == lobby.AwaitingPlayers {
				h.Table.Leave(h.UUID)
			}
		}
	}
	h.Global.Unsubscribe(h.UUID)
	h.Reg.Disconnect(h.UUID)
	h.Table.PublishLobbiesUpdate(context.Background(), h.Global, h.Reg)
	slog.Info("player disconnected", "uuid", h.UUID)
}
