package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HTTPSuggester asks a chess API for the best move in a FEN position.
// The service is expected to accept POST {fen, depth, variants} and answer
// with a JSON object carrying the move in "move".
type HTTPSuggester struct {
	url     string
	timeout time.Duration
}

type apiResponse struct {
	Move  string `json:"move"`
	Type  string `json:"type"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

func NewHTTPSuggester(url string, timeout time.Duration) *HTTPSuggester {
	return &HTTPSuggester{url: url, timeout: timeout}
}

func (s *HTTPSuggester) Suggest(ctx context.Context, req model.SuggestionRequest) (string, error) {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	type result struct {
		move string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		move, err := s.fetch(req, timeout)
		done <- result{move, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.move, r.err
	}
}

func (s *HTTPSuggester) fetch(req model.SuggestionRequest, timeout time.Duration) (string, error) {
	log := logrus.WithFields(logrus.Fields{"url": s.url, "fen": req.FEN})
	log.Debug("requesting move suggestion")

	agent := fiber.Post(s.url).JSON(req)
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		return "", fmt.Errorf("prepare request: %w", err)
	}

	var resp apiResponse
	code, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return "", fmt.Errorf("suggestion request: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("suggestion request: status %d: %s", code, resp.Error)
	}
	if resp.Move == "" {
		return "", ErrNoMove
	}
	log.WithField("move", resp.Move).Debug("received move suggestion")
	return resp.Move, nil
}
