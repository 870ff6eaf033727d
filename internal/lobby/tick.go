package lobby

import (
	"context"

	"territoryd/internal/bus"
	"territoryd/internal/game"
	"territoryd/internal/registry"
)

// Advance is the Game Loop's single per-wake pass over every lobby:
// StartingSoon lobbies past their deadline are launched, InGame lobbies
// are ticked and ended when terminal. Each transition fires a global
// LobbiesUpdate after releasing the lobby's own lock.
func (t *Table) Advance(ctx context.Context, reg *registry.Registry, global *bus.Broadcaster) {
	for _, l := range t.lobbies {
		switch l.Status() {
		case StartingSoon:
			l.mu.Lock()
			ready := !l.deadline.IsZero() && !l.clock.Now().Before(l.deadline)
			l.mu.Unlock()
			if ready {
				l.Launch(ctx, reg)
				t.PublishLobbiesUpdate(ctx, global, reg)
			}
		case InGame:
			if l.Tick(ctx, reg) {
				l.EndGame(reg)
				t.PublishLobbiesUpdate(ctx, global, reg)
			}
		}
	}
}

// Launch assigns colors and Kingdoms, resets queues, and flips the
// lobby to InGame.
func (l *Lobby) Launch(ctx context.Context, reg *registry.Registry) {
	l.mu.Lock()
	l.status = InGame
	l.tick = 0
	members := make([]string, 0, len(l.members))
	for uuid := range l.members {
		members = append(members, uuid)
	}
	for i, uuid := range members {
		color := game.ColorGrey
		if i < len(game.ColorPalette) {
			color = game.ColorPalette[i]
		}
		coord, err := l.board.RandomEmptyCoord(l.rng)
		if err != nil {
			continue
		}
		*l.board.At(coord) = game.Tile{Status: game.TileOccupied, Type: game.TileKingdom, Owner: uuid, Troops: 1}
		if p, ok := reg.Get(uuid); ok {
			p.SetColor(color)
			p.SetCoord(coord)
			p.ClearQueue()
		}
	}
	l.mu.Unlock()

	l.Broadcast.Send(ctx, bus.GameStarted(l.ID))
}

// EndGame clears the lobby-id on every member still pointing here,
// regenerates the board, and resets membership and tick.
func (l *Lobby) EndGame(reg *registry.Registry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for uuid := range l.members {
		if p, ok := reg.Get(uuid); ok {
			if id, has := p.LobbyID(); has && id == l.ID {
				p.SetLobbyID(nil)
			}
		}
	}
	l.members = make(map[string]string)
	l.board = game.GenerateBoard(l.tunables.Board, l.rng)
	l.status = AwaitingPlayers
	l.tick = 0
}

// scoreEntry accumulates one lobby member's per-tick scoreboard figures.
type scoreEntry struct {
	troops    int
	positions int
	color     game.Color
}

// Tick runs the five-step per-lobby tick resolver (growth, combat
// resolution, scoreboard aggregation, view emission, termination check).
// Returns true when the lobby reaches a terminal state this tick.
func (l *Lobby) Tick(ctx context.Context, reg *registry.Registry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tick++
	t := l.tick

	// Step 1 — troop generation.
	game.Grow(l.board, t, l.tunables.Growth)

	// Step 2 — move application.
	scores := make(map[string]*scoreEntry, len(l.members))
	for uuid := range l.members {
		scores[uuid] = &scoreEntry{color: game.ColorGrey}

		p, connected := reg.Get(uuid)
		if !connected {
			continue
		}
		if id, has := p.LobbyID(); !has || id != l.ID {
			continue
		}
		scores[uuid].color = p.Color()

		move, ok := p.PopMove()
		if !ok {
			continue
		}
		from, hasCoord := p.Coord()
		if !hasCoord {
			continue
		}
		to := move.Target(l.board, from)
		assault := game.ResolveCombat(l.board, uuid, from, to)
		newPos, cascadeFrom := game.Apply(l.board, uuid, from, to, assault)
		if cascadeFrom != "" {
			game.Cascade(l.board, cascadeFrom, uuid)
		}
		p.SetCoord(newPos)
	}

	// Step 3 — territory accounting.
	owners := make(map[string]struct{})
	for x := range l.board.Tiles {
		for y := range l.board.Tiles[x] {
			tile := l.board.Tiles[x][y]
			if tile.Status != game.TileOccupied || tile.Owner == "" {
				continue
			}
			entry, tracked := scores[tile.Owner]
			if !tracked {
				continue
			}
			entry.positions++
			entry.troops += tile.Troops
			owners[tile.Owner] = struct{}{}
		}
	}

	// Step 4 — per-player view emission, for every connected member of
	// this lobby whose lobby id still points at it. Players in other
	// lobbies, or in none, receive no view from this lobby.
	l.emitViews(ctx, reg, scores)

	// Step 5 — termination check.
	active := 0
	for _, e := range scores {
		if e.color != game.ColorGrey {
			active++
		}
	}
	switch {
	case len(owners) == 1:
		var winner string
		for uuid := range owners {
			winner = uuid
		}
		name, _ := reg.Name(winner)
		l.Broadcast.Send(ctx, bus.WinnerIs(name))
		return true
	case len(owners) == 0:
		l.Broadcast.Send(ctx, bus.WinnerIs(""))
		return true
	case active == 0:
		l.Broadcast.Send(ctx, bus.WinnerIs(""))
		return true
	default:
		return false
	}
}

func (l *Lobby) emitViews(ctx context.Context, reg *registry.Registry, scores map[string]*scoreEntry) {
	resolve := reg.Name

	scoreBoard := make(map[string]bus.ScoreEntry, len(scores))
	for uuid, e := range scores {
		name, ok := resolve(uuid)
		if !ok {
			name = uuid
		}
		scoreBoard[name] = bus.ScoreEntry{TotalTroops: e.troops, TotalPositions: e.positions, Color: e.color}
	}

	for uuid := range l.members {
		p, ok := reg.Get(uuid)
		if !ok {
			continue
		}
		id, has := p.LobbyID()
		if !has || id != l.ID {
			continue
		}
		coord, _ := p.Coord()
		view := game.View(l.board, uuid, resolve)
		p.Send(bus.GameUpdate(bus.GameUpdatePayload{
			BoardGame:  view,
			ScoreBoard: scoreBoard,
			Moves:      bus.MovesView{QueuedMoves: p.QueuedMoves(), XY: [2]int{coord.X, coord.Y}},
			Tick:       l.tick,
		}))
	}
}
