// Package bot talks to the external move-suggestion collaborator, either an
// HTTP chess API or a local UCI engine process.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbeisheim/chess3d-backend/internal/config"
	"github.com/benbeisheim/chess3d-backend/internal/model"
)

var (
	ErrDisabled = errors.New("no move-suggestion bot configured")
	ErrNoMove   = errors.New("bot returned no move")
)

// Func adapts a plain function to model.Suggester.
type Func func(ctx context.Context, req model.SuggestionRequest) (string, error)

func (f Func) Suggest(ctx context.Context, req model.SuggestionRequest) (string, error) {
	return f(ctx, req)
}

// New builds the suggester selected by cfg. Suggesters that hold a process
// also implement io.Closer.
func New(cfg config.Bot) (model.Suggester, error) {
	switch cfg.Kind {
	case config.BotHTTP:
		return NewHTTPSuggester(cfg.URL, cfg.Timeout), nil
	case config.BotUCI:
		engine, err := StartUCIEngine(cfg.Cmd, cfg.Args)
		if err != nil {
			return nil, fmt.Errorf("start uci engine: %w", err)
		}
		return engine, nil
	case config.BotNone:
		return nil, ErrDisabled
	}
	return nil, fmt.Errorf("unknown bot kind %q", cfg.Kind)
}
