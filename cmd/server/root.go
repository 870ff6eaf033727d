package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"territoryd/internal/handlers"
	"territoryd/internal/middleware"
)

func init() {
	logger := slog.New(handlers.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, nil),
		Keys: []any{
			middleware.PlayerUUIDKey,
			middleware.LobbyIDKey,
			middleware.LobbyStateKey,
		},
	})
	slog.SetDefault(logger)
}

// newRootCmd wires cobra+viper for the single --config flag, which can
// also be set through TERRITORYD_CONFIG. The file it names is read, with
// the process environment, by config.LoadConfig inside run.
func newRootCmd() *cobra.Command {
	var configPath string

	v := viper.New()
	v.SetEnvPrefix("TERRITORYD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "territoryd",
		Short:         "Territorial-conquest game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&configPath, "config", ".env", "path to the .env config file (env: TERRITORYD_CONFIG)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
