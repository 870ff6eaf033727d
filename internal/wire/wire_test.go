package wire_test

import (
	"encoding/json"
	"testing"

	"territoryd/internal/bus"
	"territoryd/internal/game"
	"territoryd/internal/wire"
)

func TestParseMoveCommand(t *testing.T) {
	cmd, err := wire.Parse("/move left")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Tag != wire.CmdMove || cmd.Move != game.MoveLeft {
		t.Fatalf("got %+v", cmd)
	}
}

func TestParseJoinLobbyCommand(t *testing.T) {
	cmd, err := wire.Parse("/joinLobby 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Tag != wire.CmdJoinLobby || cmd.LobbyID != 2 {
		t.Fatalf("got %+v", cmd)
	}
}

func TestParsePing(t *testing.T) {
	cmd, err := wire.Parse("/ping")
	if err != nil || cmd.Tag != wire.CmdPing {
		t.Fatalf("got %+v, err=%v", cmd, err)
	}
}

func TestParseChatCommands(t *testing.T) {
	cmd, err := wire.Parse("/sendGlobalMessage hello world")
	if err != nil || cmd.Tag != wire.CmdSendGlobalMessage || cmd.Text != "hello world" {
		t.Fatalf("got %+v, err=%v", cmd, err)
	}
	cmd, err = wire.Parse("/sendLobbyMessage gg")
	if err != nil || cmd.Tag != wire.CmdSendLobbyMessage || cmd.Text != "gg" {
		t.Fatalf("got %+v, err=%v", cmd, err)
	}
}

func TestParseRejectsMalformedInputWithoutPanicking(t *testing.T) {
	cases := []string{"", "no-slash", "/unknown verb", "/joinLobby notanumber", "/joinLobby -1", "/move sideways"}
	for _, c := range cases {
		if _, err := wire.Parse(c); err != wire.ErrParse {
			t.Errorf("Parse(%q) = %v, want ErrParse", c, err)
		}
	}
}

func TestEncodePongHasNoPayload(t *testing.T) {
	frame, err := wire.Encode(bus.Pong())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame != "/pong" {
		t.Fatalf("got %q, want /pong", frame)
	}
}

func TestEncodeScalarPayload(t *testing.T) {
	frame, err := wire.Encode(bus.JoinLobbyAck(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame != "/lobbyJoined 3" {
		t.Fatalf("got %q", frame)
	}
}

func TestEncodeJSONPayloadRoundTrips(t *testing.T) {
	msg := bus.GlobalChatNew(bus.ChatMessage{Poster: "Alice", Message: "hi"})
	frame, err := wire.Encode(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const prefix = "/globalChatNewMessage "
	if len(frame) <= len(prefix) || frame[:len(prefix)] != prefix {
		t.Fatalf("got %q, want prefix %q", frame, prefix)
	}
	var decoded bus.ChatMessage
	if err := json.Unmarshal([]byte(frame[len(prefix):]), &decoded); err != nil {
		t.Fatalf("payload did not round-trip as JSON: %v", err)
	}
	if decoded != (bus.ChatMessage{Poster: "Alice", Message: "hi"}) {
		t.Fatalf("got %+v", decoded)
	}
}
