// Package bus implements the three message-delivery scopes of the game
// server: one global broadcast, one broadcast per lobby, and one private
// channel per connection. Delivery is best-effort: a subscriber that
// cannot keep up has messages dropped for it, never for anyone else.
package bus

import (
	"encoding/json"

	"territoryd/internal/game"
)

// Verb is the wire tag of a server-to-client message, e.g. "gameUpdate";
// the encoder prefixes it with "/".
type Verb string

const (
	VerbPong              Verb = "pong"
	VerbJoinLobby         Verb = "lobbyJoined"
	VerbLobbiesUpdate     Verb = "lobbiesGeneralUpdate"
	VerbGlobalChatSync    Verb = "globalChatSync"
	VerbGlobalChatNew     Verb = "globalChatNewMessage"
	VerbLobbyChatSync     Verb = "lobbyChatSync"
	VerbLobbyChatNew      Verb = "lobbyChatNewMessage"
	VerbGameStarted       Verb = "gameStarted"
	VerbGameUpdate        Verb = "gameUpdate"
	VerbWinnerIs          Verb = "winnerIs"
	VerbQueuedMoves       Verb = "myMoves"
	VerbError             Verb = "error"
)

// ChatMessage is a single append-only chat line, global or per-lobby.
type ChatMessage struct {
	Poster  string `json:"poster"`
	Message string `json:"message"`
}

// LobbySummary is one lobby's entry inside a LobbiesUpdate payload.
type LobbySummary struct {
	PlayerCapacity    int      `json:"player_capacity"`
	PlayerNames       []string `json:"player_names"`
	Status            string   `json:"status"`
	NextStartingTime  int64    `json:"next_starting_time"`
}

// ConnectedPlayer is one entry of the connected_players roster: the
// player's display name and the lobby id they currently sit in, or nil.
type ConnectedPlayer struct {
	Name    string
	LobbyID *int
}

// MarshalJSON renders a ConnectedPlayer as the tuple
// [name, lobby_id-or-null], not as a JSON object.
func (p ConnectedPlayer) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Name, p.LobbyID})
}

// LobbiesUpdate is the payload of a VerbLobbiesUpdate frame.
type LobbiesUpdate struct {
	Lobbies          []LobbySummary    `json:"lobbies"`
	ConnectedPlayers []ConnectedPlayer `json:"connected_players"`
}

// MovesView is the attacker-facing snapshot of their own queue and
// position, sent both as QueuedMoves (on every /move) and embedded in
// every GameUpdate.
type MovesView struct {
	QueuedMoves []game.Move `json:"queued_moves"`
	XY          [2]int      `json:"xy"`
}

// ScoreEntry is one player's scoreboard line inside a GameUpdate.
type ScoreEntry struct {
	TotalTroops    int        `json:"total_troops"`
	TotalPositions int        `json:"total_positions"`
	Color          game.Color `json:"color"`
}

// GameUpdatePayload is the per-player fog-of-war snapshot sent every tick.
type GameUpdatePayload struct {
	BoardGame  [][]game.TileView     `json:"board_game"`
	ScoreBoard map[string]ScoreEntry `json:"score_board"`
	Moves      MovesView             `json:"moves"`
	Tick       int                   `json:"tick"`
}

// Message is the closed tagged union every scope carries. Payload holds
// the verb-specific body (nil for Pong); Scalar holds payloads the wire
// format renders as a bare token rather than JSON (lobby ids, names).
type Message struct {
	Verb    Verb
	Scalar  string
	Payload any
}

func Pong() Message { return Message{Verb: VerbPong} }

func JoinLobbyAck(lobbyID int) Message {
	return Message{Verb: VerbJoinLobby, Scalar: itoa(lobbyID)}
}

func LobbiesUpdateMsg(p LobbiesUpdate) Message {
	return Message{Verb: VerbLobbiesUpdate, Payload: p}
}

func GlobalChatSync(history []ChatMessage) Message {
	return Message{Verb: VerbGlobalChatSync, Payload: history}
}

func GlobalChatNew(m ChatMessage) Message {
	return Message{Verb: VerbGlobalChatNew, Payload: m}
}

func LobbyChatSync(history []ChatMessage) Message {
	return Message{Verb: VerbLobbyChatSync, Payload: history}
}

func LobbyChatNew(m ChatMessage) Message {
	return Message{Verb: VerbLobbyChatNew, Payload: m}
}

func GameStarted(lobbyID int) Message {
	return Message{Verb: VerbGameStarted, Scalar: itoa(lobbyID)}
}

func GameUpdate(p GameUpdatePayload) Message {
	return Message{Verb: VerbGameUpdate, Payload: p}
}

func WinnerIs(name string) Message {
	return Message{Verb: VerbWinnerIs, Scalar: name}
}

func QueuedMoves(p MovesView) Message {
	return Message{Verb: VerbQueuedMoves, Payload: p}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
