package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Perft() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perft <depth>",
		Short: "Count legal move paths from a position",
		Long: heredoc.Doc(`perft walks the legal move tree to the given depth and prints
			the node count below each root move, then the total.`),
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			var depth int
			if _, err := fmt.Sscan(args[0], &depth); err != nil || depth < 1 {
				return fmt.Errorf("invalid depth %q", args[0])
			}
			fen, _ := cmd.Flags().GetString("fen")
			gs, err := newGameState(fen)
			if err != nil {
				return err
			}

			start := time.Now()
			divide := model.Divide(gs, depth)
			moves := make([]string, 0, len(divide))
			for move := range divide {
				moves = append(moves, move)
			}
			sort.Strings(moves)

			out := cmd.OutOrStdout()
			total := 0
			for _, move := range moves {
				fmt.Fprintf(out, "%s: %d\n", move, divide[move])
				total += divide[move]
			}
			fmt.Fprintf(out, "\nnodes: %d\n", total)
			logrus.WithFields(logrus.Fields{"depth": depth, "elapsed": time.Since(start)}).Debug("perft done")
			return nil
		},
	}

	cmd.Flags().String("fen", "", "Position to start from (default: starting position)")
	return cmd
}
