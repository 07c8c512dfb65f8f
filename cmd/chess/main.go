// FILE: cmd/chess/main.go
// Package main runs a two-player chess game in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chessrules/internal/cli"
	"chessrules/internal/service"
	clitransport "chessrules/internal/transport/cli"

	"golang.org/x/term"
)

func main() {
	savesDir := flag.String("saves", "saves", "Directory for saved games")
	history := flag.String("history", "", "Optional readline history file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	input, closeInput, err := cli.StdinReader(*history, term.IsTerminal(int(os.Stdin.Fd())), os.Stdin, os.Stdout)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer closeInput()

	svc := service.New(nil)
	defer svc.Close()

	view := cli.New(input, os.Stdout)
	handler := clitransport.New(svc, view, *savesDir)

	view.ShowWelcome()
	if err := handler.Run(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}
