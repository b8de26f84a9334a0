package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/benbeisheim/chess3d-backend/internal/bot"
	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const spinnerCharset = 14

func SelfPlay() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Let the configured bot play itself",
		Long: heredoc.Doc(`selfplay hosts a game with the configured bot on both seats and
			prints the moves once it ends. The finished game is archived like
			any other.`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")
			stall, _ := cmd.Flags().GetDuration("stall")

			suggester, err := bot.New(cfg.Bot)
			if err != nil {
				return err
			}
			if closer, ok := suggester.(io.Closer); ok {
				defer closer.Close()
			}

			archive, err := openArchive(cfg.Storage)
			if err != nil {
				return err
			}
			defer archive.Close()

			done := make(chan model.GameRecord, 1)
			game := model.NewGame(uuid.New().String(), model.GameOptions{
				OnFinish: func(rec model.GameRecord) { done <- rec },
			})
			defer game.Close()

			seat := model.BotSeat{Suggester: suggester, Depth: cfg.Bot.Depth, Variants: cfg.Bot.Variants}
			for _, color := range []model.Color{model.White, model.Black} {
				if err := game.SetBot(color, seat); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s := spinner.New(spinner.CharSets[spinnerCharset], 100*time.Millisecond)
			s.Suffix = " playing " + game.ID
			s.Start()
			rec, err := waitForResult(ctx, game, done, stall)
			s.Stop()
			if err != nil {
				return err
			}

			if err := archive.Save(rec); err != nil {
				logrus.WithError(err).Warn("failed to archive self-play game")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "result: %s\n", rec.Result)
			fmt.Fprintf(out, "moves:  %s\n", strings.Join(rec.Notation, " "))
			fmt.Fprintf(out, "fen:    %s\n", rec.FinalFEN)
			return nil
		},
	}

	cmd.Flags().Duration("timeout", 10*time.Minute, "Give up after this long")
	cmd.Flags().Duration("stall", time.Minute, "Give up when no move is played for this long")
	return cmd
}

// waitForResult blocks until the game finishes. A game that stops moving
// (the bot failed or suggested an illegal move) is reported as stuck.
func waitForResult(ctx context.Context, game *model.Game, done <-chan model.GameRecord, stall time.Duration) (model.GameRecord, error) {
	ticker := time.NewTicker(stall)
	defer ticker.Stop()

	last := game.FEN()
	for {
		select {
		case rec := <-done:
			return rec, nil
		case <-ctx.Done():
			return model.GameRecord{}, fmt.Errorf("self-play did not finish: %w", ctx.Err())
		case <-ticker.C:
		}

		fen := game.FEN()
		if fen == last {
			return model.GameRecord{}, errors.New("self-play stalled at " + fen)
		}
		last = fen
	}
}
