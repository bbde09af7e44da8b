package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/config"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-lobby/transport/rest"
	"github.com/rocketscienceinc/tictactoe-lobby/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var resultRepo repository.ResultRepository
	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedis(ctx, storage.RedisOptions{
			Addr:     conf.Redis.GetRedisAddr(),
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		resultRepo = repository.NewResultRepository(redisStorage, conf.Archive.HistorySize, conf.Archive.TTL)
		log.Info("Game results are archived in redis", "addr", conf.Redis.GetRedisAddr())
	}

	registry := repository.NewRegistry()
	hub := websocket.NewHub(logger)
	gameManager := usecase.NewGameManager(logger, registry, hub, resultRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, registry, resultRepo)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, hub, gameManager, websocket.Options{
			AllowedOrigins: conf.AllowedOrigins,
			ReadLimit:      conf.WebSocket.ReadLimit,
			WriteWait:      conf.WebSocket.WriteWait,
			PongWait:       conf.WebSocket.PongWait,
			SendBuffer:     conf.WebSocket.SendBuffer,
		})
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
