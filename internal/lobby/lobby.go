// Package lobby implements the lobby state machine: membership, chat
// log, countdown, and the board each lobby owns while InGame. The Table
// is the process-wide, permanent set of lobbies the Game Loop drives.
package lobby

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"territoryd/internal/bus"
	"territoryd/internal/game"
	"territoryd/internal/registry"
)

// Status is a lobby's position in the AwaitingPlayers -> StartingSoon ->
// InGame -> AwaitingPlayers cycle.
type Status int

const (
	AwaitingPlayers Status = iota
	StartingSoon
	InGame
)

func (s Status) String() string {
	switch s {
	case StartingSoon:
		return "StartingSoon"
	case InGame:
		return "InGame"
	default:
		return "AwaitingPlayers"
	}
}

// Clock abstracts time.Now for deterministic countdown-deadline tests,
// satisfied directly by *benbjohnson/clock.Clock.
type Clock interface {
	Now() time.Time
}

// Tunables bundles every constant a Lobby's own logic needs, resolved
// once at boot from internal/config.
type Tunables struct {
	Capacity     int
	JoinDelay    time.Duration
	MaxQueued    int
	ChatSnapshot int
	Board        game.GenerationOptions
	Growth       game.GrowthPeriods
}

// Lobby is one process-wide lobby slot.
type Lobby struct {
	ID        int
	Broadcast *bus.Broadcaster

	tunables Tunables
	clock    Clock
	rng      *rand.Rand

	mu       sync.RWMutex
	status   Status
	deadline time.Time
	members  map[string]string // uuid -> name, as of last join/leave
	chat     bus.ChatLog
	board    *game.Board
	tick     int
}

func newLobby(id int, tunables Tunables, clk Clock, rng *rand.Rand) *Lobby {
	return &Lobby{
		ID:        id,
		Broadcast: bus.NewBroadcaster(),
		tunables:  tunables,
		clock:     clk,
		rng:       rng,
		members:   make(map[string]string),
		board:     game.GenerateBoard(tunables.Board, rng),
	}
}

// Status returns the lobby's current status.
func (l *Lobby) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

// Deadline returns the countdown deadline; meaningful only in StartingSoon.
func (l *Lobby) Deadline() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.deadline
}

// MemberNames returns a snapshot of the uuid->name member map.
func (l *Lobby) MemberNames() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.members))
	for k, v := range l.members {
		out[k] = v
	}
	return out
}

// Capacity returns the lobby's fixed member capacity.
func (l *Lobby) Capacity() int {
	return l.tunables.Capacity
}

func (l *Lobby) chatSnapshotLocked() []bus.ChatMessage {
	return l.chat.Snapshot(l.tunables.ChatSnapshot)
}

func (l *Lobby) removeMember(uuid string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.members, uuid)
}

// AppendChat appends a message to the lobby's chat log. The ChatLog has
// its own mutex, so this needs no lobby lock.
func (l *Lobby) AppendChat(msg bus.ChatMessage) {
	l.chat.Append(msg)
}

// ChatSnapshot returns the last ChatSnapshot messages, per testable
// property 6 (snapshot length bound).
func (l *Lobby) ChatSnapshot() []bus.ChatMessage {
	return l.chat.Snapshot(l.tunables.ChatSnapshot)
}

// ForceBoard overwrites the lobby's board outright. Exported for tests
// that need a deterministic board layout instead of the random one
// GenerateBoard produces.
func (l *Lobby) ForceBoard(b *game.Board) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.board = b
}

// BoardView returns the fog-of-war view of this lobby's board for a
// single player.
func (l *Lobby) BoardView(uuid string, resolve game.ResolveName) [][]game.TileView {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return game.View(l.board, uuid, resolve)
}

// Summary renders this lobby's LobbySummary for a LobbiesUpdate payload.
func (l *Lobby) Summary() bus.LobbySummary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.members))
	for _, n := range l.members {
		names = append(names, n)
	}
	var deadline int64
	if l.status == StartingSoon {
		deadline = l.deadline.Unix()
	}
	return bus.LobbySummary{
		PlayerCapacity:   l.tunables.Capacity,
		PlayerNames:      names,
		Status:           l.status.String(),
		NextStartingTime: deadline,
	}
}

// Table is the fixed, process-wide set of lobbies.
type Table struct {
	lobbies []*Lobby
}

// NewTable builds count lobbies sharing the same tunables.
func NewTable(count int, tunables Tunables, clk Clock, rng *rand.Rand) *Table {
	t := &Table{lobbies: make([]*Lobby, count)}
	for i := range t.lobbies {
		t.lobbies[i] = newLobby(i, tunables, clk, rng)
	}
	return t
}

// NewTableRealClock is the production constructor, wiring a real wall
// clock and source of randomness.
func NewTableRealClock(count int, tunables Tunables) *Table {
	return NewTable(count, tunables, clock.New(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Get returns lobby id, if it exists.
func (t *Table) Get(id int) (*Lobby, bool) {
	if id < 0 || id >= len(t.lobbies) {
		return nil, false
	}
	return t.lobbies[id], true
}

// All returns every lobby, for the game loop and for snapshotting.
func (t *Table) All() []*Lobby {
	out := make([]*Lobby, len(t.lobbies))
	copy(out, t.lobbies)
	return out
}

// LobbiesUpdate builds the global roster payload: one LobbySummary per
// lobby plus the connected_players list. Must never be called while
// holding any single lobby's lock.
func (t *Table) LobbiesUpdate(reg *registry.Registry) bus.LobbiesUpdate {
	summaries := make([]bus.LobbySummary, len(t.lobbies))
	for i, l := range t.lobbies {
		summaries[i] = l.Summary()
	}
	players := reg.Snapshot()
	connected := make([]bus.ConnectedPlayer, 0, len(players))
	for _, p := range players {
		cp := bus.ConnectedPlayer{Name: p.Name}
		if id, ok := p.LobbyID(); ok {
			idCopy := id
			cp.LobbyID = &idCopy
		}
		connected = append(connected, cp)
	}
	return bus.LobbiesUpdate{Lobbies: summaries, ConnectedPlayers: connected}
}

// PublishLobbiesUpdate fans the current roster out on the global scope.
func (t *Table) PublishLobbiesUpdate(ctx context.Context, global *bus.Broadcaster, reg *registry.Registry) {
	global.Send(ctx, bus.LobbiesUpdateMsg(t.LobbiesUpdate(reg)))
}
