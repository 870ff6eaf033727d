// Package game implements the territorial-conquest board: tiles, combat
// resolution, troop growth and the per-player fog-of-war view.
package game

import "time"

// Tunables. Defaults mirror the original captain.io-back constants
// (NB_LOBBIES, DELAY_FOR_GAMESTART_SEC, MAX_QUEUED_MOVES) where the
// distilled spec left a value unconstrained.
const (
	DefaultLobbyCount   = 4
	DefaultMaxQueued    = 8
	DefaultMinNameLen   = 3
	DefaultMaxNameLen   = 25
	DefaultChatSnapshot = 20

	DefaultBoardWidthMin  = 10
	DefaultBoardWidthMax  = 20
	DefaultBoardHeightMin = 10
	DefaultBoardHeightMax = 20

	DefaultMountainCount = 8
	DefaultCastleCount   = 3

	// Troop generation periods, in ticks.
	DefaultTickKingdom = 1
	DefaultTickCastle  = 2
	DefaultTickBlank   = 25
)

// DefaultJoinDelay is how long a lobby stays in StartingSoon before Launch.
const DefaultJoinDelay = 3 * time.Second

// DefaultTickInterval is how often the game loop advances InGame lobbies.
const DefaultTickInterval = 500 * time.Millisecond
