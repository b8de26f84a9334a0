package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/benbeisheim/chess3d-backend/internal/bot"
	"github.com/benbeisheim/chess3d-backend/internal/config"
	"github.com/benbeisheim/chess3d-backend/internal/controller"
	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/benbeisheim/chess3d-backend/internal/service"
	"github.com/benbeisheim/chess3d-backend/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Serve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Long: heredoc.Doc(`serve starts the HTTP and websocket game server.

			Finished games are archived in the configured storage directory.
			When a bot is configured, games created with {"bot": "<color>"}
			give that seat to the bot.`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().String("addr", "", "Listen address, overrides server.addr")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	archive, err := openArchive(cfg.Storage)
	if err != nil {
		return err
	}
	defer archive.Close()

	suggester, err := bot.New(cfg.Bot)
	switch {
	case errors.Is(err, bot.ErrDisabled):
		logrus.Info("no bot configured, bot games are disabled")
	case err != nil:
		return err
	}
	if closer, ok := suggester.(io.Closer); ok {
		defer closer.Close()
	}

	opts := service.ManagerOptions{
		ClockTime:   cfg.Clock.Initial,
		Bot:         suggester,
		BotDepth:    cfg.Bot.Depth,
		BotVariants: cfg.Bot.Variants,
		Archive:     archive,
	}
	gameService := service.NewGameService(service.NewGameManager(opts))
	app := controller.NewApp(cfg.Server, gameService)

	errc := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.Server.Addr).Info("listening")
		errc <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logrus.Info("shutting down")
		return app.ShutdownWithTimeout(5 * time.Second)
	}
}

func openArchive(cfg config.Storage) (*storage.Archive, error) {
	if cfg.InMemory {
		return storage.OpenInMemory()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	logrus.WithField("dir", cfg.Dir).Debug("opening game archive")
	return storage.Open(cfg.Dir)
}

// newGameState parses fen, or returns the standard opening when it is empty.
func newGameState(fen string) (*model.GameState, error) {
	if fen == "" {
		return model.NewGameState(), nil
	}
	return model.ParseFEN(fen)
}
