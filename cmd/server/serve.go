package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"

	"territoryd/internal/bus"
	"territoryd/internal/config"
	"territoryd/internal/game"
	"territoryd/internal/httpapi"
	"territoryd/internal/lobby"
	"territoryd/internal/loop"
	"territoryd/internal/namestore"
	"territoryd/internal/rate"
	"territoryd/internal/registry"
)

func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := namestore.Migrate(ctx, cfg.DB.DSN); err != nil {
		return fmt.Errorf("running name store migrations: %w", err)
	}
	names, err := namestore.Open(ctx, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("opening name store: %w", err)
	}
	defer names.Close()

	reg := registry.New()
	global := bus.NewBroadcaster()
	globalChat := &bus.ChatLog{}

	tunables := lobby.Tunables{
		Capacity:     cfg.Game.LobbyCapacity,
		JoinDelay:    cfg.Game.JoinDelay,
		MaxQueued:    cfg.Game.MaxQueuedMoves,
		ChatSnapshot: cfg.Game.ChatSnapshotLen,
		Board: game.GenerationOptions{
			WidthMin: cfg.Game.BoardWidthMin, WidthMax: cfg.Game.BoardWidthMax,
			HeightMin: cfg.Game.BoardHeightMin, HeightMax: cfg.Game.BoardHeightMax,
			MountainCount: cfg.Game.MountainCount, CastleCount: cfg.Game.CastleCount,
		},
		Growth: game.GrowthPeriods{
			Kingdom: cfg.Game.TickKingdom, Castle: cfg.Game.TickCastle, Blank: cfg.Game.TickBlank,
		},
	}
	table := lobby.NewTableRealClock(cfg.Game.LobbyCount, tunables)

	srv := httpapi.NewServer()
	srv.JWTSecret = cfg.JWTSecret
	srv.MinNameLength = cfg.Game.MinNameLength
	srv.MaxNameLength = cfg.Game.MaxNameLength
	srv.PingInterval = cfg.Game.PingInterval
	srv.PingTimeout = cfg.Game.PingTimeout
	srv.MaxQueued = cfg.Game.MaxQueuedMoves
	srv.ChatSnapshot = cfg.Game.ChatSnapshotLen
	srv.Names = names
	srv.Reg = reg
	srv.Table = table
	srv.Global = global
	srv.Chat = globalChat
	srv.AcceptOptions = websocket.AcceptOptions{OriginPatterns: cfg.CORS.AllowedOrigins}
	if cfg.RequestsRateLimit > 0 {
		srv.Limit = rate.NewLimiter(time.Second, cfg.RequestsRateLimit)
	}

	go loop.Run(ctx, table, reg, global, cfg.Game.TickInterval)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Listen.Addr, cfg.Listen.Port),
		Handler:      srv.Routes(cfg.CORS.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
