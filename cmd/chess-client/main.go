// FILE: cmd/chess-client/main.go
// Package main plays games hosted by a chess-server from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"chessrules/internal/cli"
	"chessrules/internal/client"
	"chessrules/internal/core"
	api "chessrules/internal/transport/http"

	"golang.org/x/term"
)

type session struct {
	client *client.Client
	view   *cli.CLI
	game   *api.GameResponse
}

func main() {
	server := flag.String("server", "http://localhost:8080", "API base URL")
	gameID := flag.String("game", "", "Join an existing game by id")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	input, closeInput, err := cli.StdinReader(".chess_client_history", term.IsTerminal(int(os.Stdin.Fd())), os.Stdin, os.Stdout)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer closeInput()

	s := &session{client: client.New(*server), view: cli.New(input, os.Stdout)}
	s.view.ShowMessage(fmt.Sprintf("Chess client for %s. Commands: new, join <id>, <move>, undo [n], wait, board, quit", *server))

	if *gameID != "" {
		s.join(ctx, *gameID)
	}

	for ctx.Err() == nil {
		line, err := input.ReadLine(s.prompt())
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			s.view.ShowError(err)
			return
		}
		if !s.handle(ctx, strings.Fields(line)) {
			return
		}
	}
}

func (s *session) prompt() string {
	if s.game == nil {
		return "chess> "
	}
	return fmt.Sprintf("chess [%s %s]> ", s.game.GameID[:8], s.game.Turn)
}

// handle runs one command line and returns false to exit
func (s *session) handle(ctx context.Context, fields []string) bool {
	if len(fields) == 0 {
		return true
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "x":
		return false
	case "new":
		g, err := s.client.CreateGame(ctx, nil)
		s.update(g, err)
	case "join":
		if len(fields) < 2 {
			s.view.ShowMessage("Usage: join <game id>")
			return true
		}
		s.join(ctx, fields[1])
	case "board":
		if s.requireGame() {
			g, err := s.client.GetGame(ctx, s.game.GameID)
			s.update(g, err)
		}
	case "wait":
		if s.requireGame() {
			g, err := s.client.WaitForMove(ctx, s.game.GameID, len(s.game.Moves))
			s.update(g, err)
		}
	case "undo":
		if s.requireGame() {
			count := 1
			if len(fields) > 1 {
				n, err := strconv.Atoi(fields[1])
				if err != nil || n < 1 {
					s.view.ShowMessage("Usage: undo [count]")
					return true
				}
				count = n
			}
			g, err := s.client.UndoMoves(ctx, s.game.GameID, count)
			s.update(g, err)
		}
	default:
		if s.requireGame() {
			g, err := s.client.MakeMove(ctx, s.game.GameID, strings.Join(fields, " "))
			s.update(g, err)
		}
	}
	return true
}

func (s *session) join(ctx context.Context, id string) {
	g, err := s.client.GetGame(ctx, id)
	s.update(g, err)
}

func (s *session) requireGame() bool {
	if s.game == nil {
		s.view.ShowMessage("No game. Use 'new' or 'join <id>'.")
		return false
	}
	return true
}

// update shows the server's answer and keeps the latest game state
func (s *session) update(g *api.GameResponse, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Code == core.ErrInvalidMove:
		s.view.ShowMessage(fmt.Sprintf("Invalid move (%s). Try again.", apiErr.Details))
		return
	case err != nil:
		s.view.ShowError(err)
		return
	}

	s.game = g
	b, _, err := g.Position.Board()
	if err != nil {
		s.view.ShowError(err)
		return
	}

	s.view.ShowMessage("Game: " + g.GameID)
	s.view.DisplayBoard(b)
	if g.State != "ongoing" {
		s.view.ShowMessage("Game over: " + strings.ReplaceAll(g.State, "_", " "))
		return
	}
	if g.Check {
		s.view.ShowMessage("Check!")
	}
}
