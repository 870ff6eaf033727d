// Package config loads the server's boot-time configuration: an
// optional .env file feeding struct tags consumed by caarlos0/env.
package config

import (
	"os"
	"reflect"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// GameConf bundles the lobby/board/tick tunables.
type GameConf struct {
	LobbyCount      int           `env:"LOBBY_COUNT"       envDefault:"4"`
	LobbyCapacity   int           `env:"LOBBY_CAPACITY"    envDefault:"4"`
	TickInterval    time.Duration `env:"TICK_INTERVAL"     envDefault:"500ms"`
	TickKingdom     int           `env:"TICK_KINGDOM"      envDefault:"1"`
	TickCastle      int           `env:"TICK_CASTLE"       envDefault:"2"`
	TickBlank       int           `env:"TICK_BLANK"        envDefault:"25"`
	BoardWidthMin   int           `env:"BOARD_WIDTH_MIN"   envDefault:"10"`
	BoardWidthMax   int           `env:"BOARD_WIDTH_MAX"   envDefault:"20"`
	BoardHeightMin  int           `env:"BOARD_HEIGHT_MIN"  envDefault:"10"`
	BoardHeightMax  int           `env:"BOARD_HEIGHT_MAX"  envDefault:"20"`
	MountainCount   int           `env:"MOUNTAIN_COUNT"    envDefault:"8"`
	CastleCount     int           `env:"CASTLE_COUNT"      envDefault:"3"`
	JoinDelay       time.Duration `env:"JOIN_DELAY"        envDefault:"3s"`
	MaxQueuedMoves  int           `env:"MAX_QUEUED_MOVES"  envDefault:"8"`
	MinNameLength   int           `env:"MIN_NAME_LENGTH"   envDefault:"3"`
	MaxNameLength   int           `env:"MAX_NAME_LENGTH"   envDefault:"25"`
	ChatSnapshotLen int           `env:"CHAT_SNAPSHOT_LEN" envDefault:"20"`
	PingInterval    time.Duration `env:"PING_INTERVAL"     envDefault:"20s"`
	PingTimeout     time.Duration `env:"PING_TIMEOUT"      envDefault:"10s"`
}

// CORSConf configures the rs/cors middleware.
type CORSConf struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// DBConf configures the pgx/v5-backed Name Store.
type DBConf struct {
	DSN string `env:"DSN" envDefault:"postgres://localhost:5432/territoryd?sslmode=disable"`
}

// ListenConf configures the HTTP/WebSocket listener.
type ListenConf struct {
	Addr string `env:"ADDR" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8080"`
}

// Config is the fully resolved, immutable-after-boot configuration.
type Config struct {
	Listen            ListenConf `envPrefix:"LISTEN_"`
	JWTSecret         []byte     `env:"JWT_SECRET"`
	CORS              CORSConf   `envPrefix:"CORS_"`
	Game              GameConf   `envPrefix:"GAME_"`
	DB                DBConf     `envPrefix:"DB_"`
	RequestsRateLimit int        `env:"REQUESTS_RATE_LIMIT" envDefault:"30"`
}

// LoadConfig loads an optional .env file at path (default ".env", if
// present) then parses the process environment into a Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		if err = godotenv.Load(path); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{}
	err := env.ParseWithOptions(&cfg, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf([]byte{0}): func(v string) (interface{}, error) {
				return []byte(v), nil
			},
		},
	})

	return cfg, err
}
