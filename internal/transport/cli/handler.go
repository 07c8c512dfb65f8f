// FILE: internal/transport/cli/handler.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/cli"
	"chessrules/internal/game"
	"chessrules/internal/parser"
	"chessrules/internal/savefile"
	"chessrules/internal/service"
)

type CLIHandler struct {
	svc      *service.Service
	view     *cli.CLI
	savesDir string
	gameID   string
}

func New(svc *service.Service, view *cli.CLI, savesDir string) *CLIHandler {
	return &CLIHandler{
		svc:      svc,
		view:     view,
		savesDir: savesDir,
	}
}

// Run is the main loop; it returns when input ends, on quit or when ctx ends
func (h *CLIHandler) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			return err
		}

		if !h.ProcessCommand(ctx, cmd) {
			return nil
		}
	}
	return ctx.Err()
}

// getPrompt shows whose turn it is while a game is running
func (h *CLIHandler) getPrompt() string {
	if h.gameID != "" {
		st, err := h.svc.GetGame(h.gameID)
		if err == nil && !st.State.IsOver() {
			return fmt.Sprintf("[%s]> ", st.Turn)
		}
	}
	return "> "
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(ctx context.Context, cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdNew:
		return h.handleNewGame()

	case cli.CmdMove:
		h.handleMove(ctx, cmd.Args[0])

	case cli.CmdUndo:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}

		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
			count = n
		}

		if err := h.svc.UndoMoves(h.gameID, count); err != nil {
			h.view.ShowError(err)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.showPosition()

	case cli.CmdSave:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: save <name>")
			return true
		}
		doc, err := h.svc.SaveDocument(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		path, err := savefile.SaveFile(h.savesDir, cmd.Args[0], doc)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Game saved to %s", path))

	case cli.CmdLoad:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: load <name|number>")
			return true
		}
		h.loadGame(cmd.Args[0])

	case cli.CmdSaves:
		names, err := savefile.List(h.savesDir)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowSaves(names)

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(strings.ToLower(cmd.Args[0]))
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if h.gameID != "" {
			h.showBoard()
		}

	case cli.CmdHistory:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		st, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGameHistory(st.Moves, st.State)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handleMove(ctx context.Context, text string) {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'load <name>'.")
		return
	}

	result, err := h.svc.MakeMove(ctx, h.gameID, text)
	switch {
	case errors.Is(err, parser.ErrInvalidFormat):
		h.view.ShowInvalidFormat()
		return
	case errors.Is(err, game.ErrGameOver):
		h.view.ShowMessage("The game is over. Use 'undo', 'new' or 'load'.")
		return
	case err != nil:
		h.view.ShowError(err)
		return
	}

	h.view.ShowMoveResult(result)
	if !result.Outcome.Applied() {
		return
	}

	if result.GameState.IsOver() {
		h.showBoard()
		h.view.ShowGameOver(result.GameState)
		return
	}
	h.showPosition()
}

// handleNewGame offers a fresh game or one of the saved games. Choosing exit
// ends the program.
func (h *CLIHandler) handleNewGame() bool {
	names, err := savefile.List(h.savesDir)
	if err != nil {
		h.view.ShowError(err)
	}
	h.view.ShowNewGameMenu(names)

	choice := strings.ToLower(h.view.ReadLine("> "))
	switch {
	case choice == "n" || choice == "new":
		id, err := h.svc.CreateGame()
		if err != nil {
			h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
			return true
		}
		h.switchTo(id)
		h.view.ShowMessage("Game started.")
		h.showPosition()
	case choice == "x" || choice == "exit":
		return false
	case len(names) > 0 && choice != "":
		h.loadGame(choice)
	default:
		h.view.ShowMessage("Invalid selection")
	}
	return true
}

func (h *CLIHandler) loadGame(ref string) {
	path, err := savefile.Resolve(h.savesDir, ref)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	doc, err := savefile.LoadFile(path)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	id, err := h.svc.CreateGameFromSave(doc)
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not load the game: %w", err))
		return
	}

	h.switchTo(id)
	h.view.ShowMessage(fmt.Sprintf("Loaded %s.", path))

	st, err := h.svc.GetGame(id)
	if err == nil && st.State.IsOver() {
		h.showBoard()
		h.view.ShowGameOver(st.State)
		return
	}
	h.showPosition()
}

// switchTo makes id the active game and drops the previous one
func (h *CLIHandler) switchTo(id string) {
	if h.gameID != "" {
		h.svc.DeleteGame(h.gameID)
	}
	h.gameID = id
}

func (h *CLIHandler) showBoard() {
	st, err := h.svc.GetGame(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(st.Board)
}

// showPosition displays the board and announces the side to move
func (h *CLIHandler) showPosition() {
	st, err := h.svc.GetGame(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(st.Board)
	if !st.State.IsOver() {
		h.view.ShowTurn(st.Turn)
	}
}
