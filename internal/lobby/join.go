package lobby

import (
	"context"
	"errors"

	"territoryd/internal/bus"
	"territoryd/internal/registry"
)

var (
	ErrNoSuchLobby      = errors.New("lobby: no such lobby")
	ErrLobbyFull        = errors.New("lobby: full")
	ErrWrongLobbyState  = errors.New("lobby: not accepting joins")
	ErrAlreadyInLobby   = errors.New("lobby: player already in this lobby")
	ErrPlayerNotInLobby = errors.New("lobby: player not in a lobby")
)

// Join moves uuid into lobbyID. Lock ordering is registry (player
// lookup, resolved by the caller) before lobby. If the player was in a
// different lobby they are removed from it once the target lobby has
// accepted them; a rejected join leaves them where they were. On success
// the player's private channel receives JoinLobby and a LobbyChatSync,
// and Join fires the global LobbiesUpdate after releasing every lock.
func (t *Table) Join(ctx context.Context, reg *registry.Registry, global *bus.Broadcaster, uuid string, lobbyID int) error {
	target, ok := t.Get(lobbyID)
	if !ok {
		return ErrNoSuchLobby
	}
	player, ok := reg.Get(uuid)
	if !ok {
		return registry.ErrPlayerNotConnected
	}

	var prev *Lobby
	if prevID, has := player.LobbyID(); has {
		if prevID == lobbyID {
			return ErrAlreadyInLobby
		}
		prev, _ = t.Get(prevID)
	}

	target.mu.Lock()
	if target.status != AwaitingPlayers {
		target.mu.Unlock()
		return ErrWrongLobbyState
	}
	if len(target.members) >= target.tunables.Capacity {
		target.mu.Unlock()
		return ErrLobbyFull
	}
	target.members[uuid] = player.Name
	if len(target.members) == target.tunables.Capacity {
		target.status = StartingSoon
		target.deadline = target.clock.Now().Add(target.tunables.JoinDelay)
	}
	chatSnapshot := target.chatSnapshotLocked()
	target.mu.Unlock()

	if prev != nil {
		prev.removeMember(uuid)
	}

	player.SetLobbyID(&lobbyID)
	player.Send(bus.JoinLobbyAck(lobbyID))
	player.Send(bus.LobbyChatSync(chatSnapshot))

	global.Send(ctx, bus.LobbiesUpdateMsg(t.LobbiesUpdate(reg)))
	return nil
}

// Leave removes uuid from whatever lobby it occupies, used by the
// connection teardown path for players still in AwaitingPlayers.
// InGame/StartingSoon members stay in place, becoming inactive instead.
func (t *Table) Leave(uuid string) {
	for _, l := range t.lobbies {
		l.mu.RLock()
		_, in := l.members[uuid]
		status := l.status
		l.mu.RUnlock()
		if !in {
			continue
		}
		if status == AwaitingPlayers {
			l.removeMember(uuid)
		}
		return
	}
}
