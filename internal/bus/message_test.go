package bus

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConnectedPlayerMarshalsAsTuple(t *testing.T) {
	lobbyID := 2

	cases := []struct {
		name string
		in   ConnectedPlayer
		want string
	}{
		{"in a lobby", ConnectedPlayer{Name: "alice", LobbyID: &lobbyID}, `["alice",2]`},
		{"not in a lobby", ConnectedPlayer{Name: "bob"}, `["bob",null]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("Marshal(%+v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestLobbiesUpdateRoundTripsAsTupleArray(t *testing.T) {
	lobbyID := 1
	update := LobbiesUpdate{
		Lobbies: []LobbySummary{{PlayerCapacity: 4, PlayerNames: []string{"alice"}, Status: "AwaitingPlayers"}},
		ConnectedPlayers: []ConnectedPlayer{
			{Name: "alice", LobbyID: &lobbyID},
			{Name: "bob"},
		},
	}

	body, err := json.Marshal(update)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		ConnectedPlayers []json.RawMessage `json:"connected_players"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	var tuples [][]any
	for _, raw := range decoded.ConnectedPlayers {
		var tuple []any
		if err := json.Unmarshal(raw, &tuple); err != nil {
			t.Fatalf("connected_players entry %s is not an array: %v", raw, err)
		}
		tuples = append(tuples, tuple)
	}

	want := [][]any{
		{"alice", 1.0},
		{"bob", nil},
	}
	if diff := cmp.Diff(want, tuples); diff != "" {
		t.Errorf("connected_players tuples mismatch (-want +got):\n%s", diff)
	}
}
