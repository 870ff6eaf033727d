package lobby_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"territoryd/internal/bus"
	"territoryd/internal/game"
	"territoryd/internal/lobby"
	"territoryd/internal/registry"
)

func testTunables() lobby.Tunables {
	return lobby.Tunables{
		Capacity:     2,
		JoinDelay:    3 * time.Second,
		MaxQueued:    8,
		ChatSnapshot: 2,
		Board: game.GenerationOptions{
			WidthMin: 6, WidthMax: 7,
			HeightMin: 6, HeightMax: 7,
			MountainCount: 0,
			CastleCount:   0,
		},
		Growth: game.GrowthPeriods{Kingdom: 1, Castle: 2, Blank: 25},
	}
}

func connectPlayer(reg *registry.Registry, uuid, name string) (*registry.Player, chan bus.Message) {
	p := reg.Connect(uuid, name)
	ch := make(chan bus.Message, 8)
	p.SetPrivate(ch)
	return p, ch
}

func TestJoinFillsLobbyAndStartsCountdown(t *testing.T) {
	reg := registry.New()
	global := bus.NewBroadcaster()
	mock := clock.NewMock()
	table := lobby.NewTable(1, testTunables(), mock, rand.New(rand.NewSource(1)))
	ctx := context.Background()

	_, ch1 := connectPlayer(reg, "u1", "Alice")
	_, ch2 := connectPlayer(reg, "u2", "Bob")
	global.Subscribe("u1", ch1)
	global.Subscribe("u2", ch2)

	if err := table.Join(ctx, reg, global, "u1", 0); err != nil {
		t.Fatalf("first join: %v", err)
	}
	l, _ := table.Get(0)
	if l.Status() != lobby.AwaitingPlayers {
		t.Fatalf("lobby should still await players after first join")
	}

	if err := table.Join(ctx, reg, global, "u2", 0); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if l.Status() != lobby.StartingSoon {
		t.Fatalf("lobby should be StartingSoon once full, got %s", l.Status())
	}
	if !l.Deadline().Equal(mock.Now().Add(3 * time.Second)) {
		t.Errorf("deadline should be now+JoinDelay")
	}
}

func TestJoinRejectsFullLobby(t *testing.T) {
	reg := registry.New()
	global := bus.NewBroadcaster()
	table := lobby.NewTable(1, testTunables(), clock.NewMock(), rand.New(rand.NewSource(1)))
	ctx := context.Background()

	connectPlayer(reg, "u1", "Alice")
	connectPlayer(reg, "u2", "Bob")
	connectPlayer(reg, "u3", "Carl")

	table.Join(ctx, reg, global, "u1", 0)
	table.Join(ctx, reg, global, "u2", 0)

	if err := table.Join(ctx, reg, global, "u3", 0); err != lobby.ErrLobbyFull {
		t.Fatalf("got %v, want ErrLobbyFull", err)
	}
}

func TestJoinSameLobbyTwiceIsNoOp(t *testing.T) {
	reg := registry.New()
	global := bus.NewBroadcaster()
	table := lobby.NewTable(1, testTunables(), clock.NewMock(), rand.New(rand.NewSource(1)))
	ctx := context.Background()

	connectPlayer(reg, "u1", "Alice")
	if err := table.Join(ctx, reg, global, "u1", 0); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := table.Join(ctx, reg, global, "u1", 0); err != lobby.ErrAlreadyInLobby {
		t.Fatalf("got %v, want ErrAlreadyInLobby", err)
	}
}

func TestChatSnapshotBoundedAtConfiguredLength(t *testing.T) {
	reg := registry.New()
	global := bus.NewBroadcaster()
	table := lobby.NewTable(1, testTunables(), clock.NewMock(), rand.New(rand.NewSource(1)))
	l, _ := table.Get(0)

	for i := 0; i < 10; i++ {
		l.AppendChat(bus.ChatMessage{Poster: "x", Message: "hi"})
	}
	if got := len(l.ChatSnapshot()); got != 2 {
		t.Fatalf("snapshot length = %d, want 2 (ChatSnapshot bound)", got)
	}
	_ = global
	_ = reg
}

func TestAdvanceLaunchesOnceDeadlinePasses(t *testing.T) {
	reg := registry.New()
	global := bus.NewBroadcaster()
	mock := clock.NewMock()
	tunables := testTunables()
	table := lobby.NewTable(1, tunables, mock, rand.New(rand.NewSource(7)))
	ctx := context.Background()

	connectPlayer(reg, "u1", "Alice")
	connectPlayer(reg, "u2", "Bob")
	table.Join(ctx, reg, global, "u1", 0)
	table.Join(ctx, reg, global, "u2", 0)

	l, _ := table.Get(0)
	table.Advance(ctx, reg, global)
	if l.Status() != lobby.StartingSoon {
		t.Fatalf("lobby should not launch before the deadline, got %s", l.Status())
	}

	mock.Add(tunables.JoinDelay)
	table.Advance(ctx, reg, global)
	if l.Status() != lobby.InGame {
		t.Fatalf("lobby should launch once the deadline passes, got %s", l.Status())
	}

	p1, _ := reg.Get("u1")
	if _, ok := p1.Coord(); !ok {
		t.Errorf("Launch should assign every member a board coordinate")
	}
}

func TestTickTerminatesWhenOneOwnerRemains(t *testing.T) {
	reg := registry.New()
	global := bus.NewBroadcaster()
	table := lobby.NewTable(1, testTunables(), clock.NewMock(), rand.New(rand.NewSource(1)))
	ctx := context.Background()

	connectPlayer(reg, "u1", "Alice")
	connectPlayer(reg, "u2", "Bob")
	table.Join(ctx, reg, global, "u1", 0)
	table.Join(ctx, reg, global, "u2", 0)

	l, _ := table.Get(0)
	l.Launch(ctx, reg)

	b := game.NewBoard(6, 6)
	b.Tiles[0][0] = game.Tile{Status: game.TileOccupied, Type: game.TileKingdom, Owner: "u1", Troops: 3}
	l.ForceBoard(b)
	p1, _ := reg.Get("u1")
	p1.SetCoord(game.Coord{X: 0, Y: 0})
	p2, _ := reg.Get("u2")
	p2.SetCoord(game.Coord{X: 1, Y: 1})

	if terminal := l.Tick(ctx, reg); !terminal {
		t.Fatalf("tick should be terminal once only one owner holds tiles")
	}
}

func TestEndGameResetsStatusAndClearsMembership(t *testing.T) {
	reg := registry.New()
	global := bus.NewBroadcaster()
	table := lobby.NewTable(1, testTunables(), clock.NewMock(), rand.New(rand.NewSource(3)))
	ctx := context.Background()
	connectPlayer(reg, "u1", "Alice")
	table.Join(ctx, reg, global, "u1", 0)

	l, _ := table.Get(0)
	l.Launch(ctx, reg)
	l.EndGame(reg)

	if l.Status() != lobby.AwaitingPlayers {
		t.Fatalf("EndGame should reset status to AwaitingPlayers, got %s", l.Status())
	}
	if len(l.MemberNames()) != 0 {
		t.Fatalf("EndGame should clear membership")
	}
	p, _ := reg.Get("u1")
	if _, has := p.LobbyID(); has {
		t.Errorf("EndGame should clear the player's lobby id")
	}
}
