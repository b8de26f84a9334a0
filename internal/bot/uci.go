package bot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/benbeisheim/chess3d-backend/internal/model"
	"github.com/sirupsen/logrus"
)

const handshakeTimeout = 10 * time.Second

// UCIEngine drives a local engine process over the UCI protocol. Requests
// are serialized; the engine thinks about one position at a time.
type UCIEngine struct {
	*exec.Cmd

	mu     sync.Mutex
	name   string
	writer *bufio.Writer
	reader *bufio.Reader
	lines  chan string
	err    error
}

func StartUCIEngine(path, args string) (*UCIEngine, error) {
	process := exec.Command(path, strings.Fields(args)...)

	stdin, err := process.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := process.StdoutPipe()
	if err != nil {
		return nil, err
	}

	engine := &UCIEngine{
		Cmd:    process,
		name:   path,
		writer: bufio.NewWriter(stdin),
		reader: bufio.NewReader(stdout),
		lines:  make(chan string),
	}

	if err := engine.Cmd.Start(); err != nil {
		return nil, err
	}

	go func() {
		for {
			line, err := engine.reader.ReadString('\n')
			if err != nil {
				engine.err = err
				close(engine.lines)
				return
			}

			line = strings.Trim(line, " \n\t\r")

			logrus.Debugf("info: (%s)> %s", engine.name, line)
			engine.lines <- line
		}
	}()

	if err := engine.Write("uci"); err != nil {
		return nil, err
	}
	if _, err := engine.await("uciok", handshakeTimeout); err != nil {
		return nil, err
	}
	if err := engine.ready(); err != nil {
		return nil, err
	}
	return engine, nil
}

// Suggest sends the position and waits for the engine's bestmove. When ctx
// ends first the search is stopped and its answer discarded.
func (engine *UCIEngine) Suggest(ctx context.Context, req model.SuggestionRequest) (string, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if err := engine.Write("position fen %s", req.FEN); err != nil {
		return "", err
	}
	goCmd := "go"
	if req.Depth > 0 {
		goCmd = fmt.Sprintf("go depth %d", req.Depth)
	}
	if err := engine.Write(goCmd); err != nil {
		return "", err
	}

	for {
		select {
		case <-ctx.Done():
			_ = engine.Write("stop")
			_, _ = engine.await("bestmove", handshakeTimeout)
			return "", ctx.Err()
		case line, ok := <-engine.lines:
			if !ok {
				return "", fmt.Errorf("engine exited: %w", engine.err)
			}
			if move, found := parseBestMove(line); found {
				if move == "" {
					return "", ErrNoMove
				}
				return move, nil
			}
		}
	}
}

func (engine *UCIEngine) ready() error {
	if err := engine.Write("isready"); err != nil {
		return err
	}
	_, err := engine.await("readyok", handshakeTimeout)
	return err
}

// await reads lines until one starts with prefix.
func (engine *UCIEngine) await(prefix string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return "", fmt.Errorf("engine %s: timed out waiting for %q", engine.name, prefix)
		case line, ok := <-engine.lines:
			if !ok {
				return "", fmt.Errorf("engine %s exited: %w", engine.name, engine.err)
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		}
	}
}

func (engine *UCIEngine) Write(format string, a ...any) error {
	logrus.Debugf("info: (%s)< "+format, append([]any{engine.name}, a...)...)
	if _, err := fmt.Fprintf(engine.writer, format+"\n", a...); err != nil {
		return err
	}
	return engine.writer.Flush()
}

// Close asks the engine to quit and kills it if it does not.
func (engine *UCIEngine) Close() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	_ = engine.Write("quit")
	done := make(chan error, 1)
	go func() { done <- engine.Cmd.Wait() }()
	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return err
	case <-time.After(2 * time.Second):
		return engine.Cmd.Process.Kill()
	}
}

// parseBestMove extracts the move from a "bestmove e2e4 [ponder e7e5]" line.
// found is false for any other line; "(none)" yields an empty move.
func parseBestMove(line string) (move string, found bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "bestmove" {
		return "", false
	}
	if len(fields) < 2 || fields[1] == "(none)" {
		return "", true
	}
	return fields[1], true
}
