package wire

import (
	"encoding/json"
	"fmt"

	"territoryd/internal/bus"
)

// Encode renders a bus.Message as the textual frame a client expects:
// "/<verb>" alone (Pong), "/<verb> <scalar>" (JoinLobby, GameStarted,
// WinnerIs), or "/<verb> <json>" for every structured payload. WinnerIs
// keeps the space when the name is empty ("/winnerIs ").
func Encode(m bus.Message) (string, error) {
	if m.Payload == nil {
		if m.Scalar == "" && m.Verb != bus.VerbWinnerIs {
			return "/" + string(m.Verb), nil
		}
		return "/" + string(m.Verb) + " " + m.Scalar, nil
	}
	body, err := json.Marshal(m.Payload)
	if err != nil {
		return "", fmt.Errorf("wire: encode %s payload: %w", m.Verb, err)
	}
	return "/" + string(m.Verb) + " " + string(body), nil
}
