package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/config"
	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/internal/obslog"
	"github.com/iamasit07/5-in-a-row/backend/internal/repository/memory"
	"github.com/iamasit07/5-in-a-row/backend/internal/repository/postgres"
	"github.com/iamasit07/5-in-a-row/backend/internal/repository/redis"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/account"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/game"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/notify"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/sweeper"
	transportHttp "github.com/iamasit07/5-in-a-row/backend/internal/transport/http"
	"github.com/iamasit07/5-in-a-row/backend/internal/transport/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../.env")
	}

	cfg := config.MustLoad()
	log := obslog.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, blocklist, cleanup, err := openStorage(ctx, cfg, log.Named("storage"))
	if err != nil {
		return err
	}
	defer cleanup()

	dispatcher := notify.NewDispatcher(log.Named("notify"), cfg.Notify.QueueSize, cfg.Notify.WriteTimeout)
	defer dispatcher.Close()

	engine := game.NewEngine(store, dispatcher, log.Named("game"), game.Options{
		QuickPlay: domain.RoomConfig{
			BoardSize:   cfg.Game.QuickPlayBoardSize,
			Timed:       cfg.Game.QuickPlayTurnSeconds > 0,
			TurnSeconds: cfg.Game.QuickPlayTurnSeconds,
		},
		LeaderboardSize: cfg.Game.LeaderboardSize,
	})

	accounts := account.NewService(store, blocklist, log.Named("account"), account.Options{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   cfg.TokenTTL(),
		BcryptCost: cfg.Auth.BcryptCost,
	})

	wsHandler := websocket.NewHandler(engine, accounts, log.Named("ws"), websocket.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		WriteTimeout:   cfg.Notify.WriteTimeout,
	})

	httpLog := log.Named("http")
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Auth:           transportHttp.NewAuthHandler(accounts, engine, httpLog, cfg.TokenTTL(), cfg.IsProduction()),
		Lobby:          transportHttp.NewLobbyHandler(engine, httpLog),
		History:        transportHttp.NewHistoryHandler(store, httpLog),
		Admin:          transportHttp.NewAdminHandler(engine, httpLog),
		Authenticator:  accounts,
		AdminToken:     cfg.AdminToken,
		AllowedOrigins: cfg.AllowedOrigins,
		WebSocket:      wsHandler.HandleWebSocket,
		Log:            httpLog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sweeper.NewWorker(engine, cfg.Game.SweepInterval, log.Named("sweeper")).Run(ctx)
	})

	g.Go(func() error {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("server is shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStorage picks Postgres when DATABASE_URL is set and the in-memory store
// otherwise. A reachable Redis adds the read-through cache and a shared token
// blocklist.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (redis.Backend, account.Blocklist, func(), error) {
	var store redis.Backend
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })

		if err := postgres.Migrate(ctx, db); err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		log.Info("using postgres store")
		store = postgres.NewStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		store = memory.NewStore()
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, caching disabled", zap.Error(err))
		return store, memory.NewBlocklist(), cleanup, nil
	}
	closers = append(closers, func() { _ = client.Close() })

	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return redis.NewCachedStore(store, client, cfg.Redis.CacheTTL, log), redis.NewBlocklist(client), cleanup, nil
}
