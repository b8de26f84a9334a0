package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/spf13/cobra"
)

func FEN() *cobra.Command {
	return &cobra.Command{
		Use:   "fen [position]",
		Short: "Describe a FEN position",
		Long: heredoc.Doc(`fen parses a position and prints the side to move, the game
			phase and every legal move in UCI notation. Without an argument
			the standard starting position is used.`),
		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			fen := ""
			if len(args) == 1 {
				fen = args[0]
			}
			gs, err := newGameState(fen)
			if err != nil {
				return err
			}
			gs.Start()

			moves := model.LegalUCIMoves(gs)
			sort.Strings(moves)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fen:    %s\n", gs.FEN())
			fmt.Fprintf(out, "turn:   %s\n", gs.TurnColor)
			fmt.Fprintf(out, "phase:  %s\n", gs.Phase)
			fmt.Fprintf(out, "moves:  %d\n", len(moves))
			if len(moves) > 0 {
				fmt.Fprintf(out, "        %s\n", strings.Join(moves, " "))
			}
			return nil
		},
	}
}
