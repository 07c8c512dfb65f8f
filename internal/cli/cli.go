// FILE: internal/cli/cli.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/parser"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdMove
	CmdUndo
	CmdSave
	CmdLoad
	CmdSaves
	CmdColor
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// LineReader supplies one line of input per call and returns io.EOF when
// input ends. The prompt is shown by the reader so line editors can redraw it.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
	output  io.Writer
}

// NewScannerReader reads lines from r, writing prompts to w
func NewScannerReader(r io.Reader, w io.Writer) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r), output: w}
}

func (s *scannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.output, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m",
		darkBg:  "\033[48;5;22m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m",
		darkBg:  "\033[48;5;240m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

type CLI struct {
	input  LineReader
	output io.Writer
	theme  ColorTheme
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand reads and classifies one line. End of input reads as quit.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	line, err := c.input.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Command{Type: CmdQuit}, nil
		}
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}
	return ParseCommand(input), nil
}

// ParseCommand classifies a non-empty line. Anything that is not a known
// command word is treated as a move attempt.
func ParseCommand(input string) *Command {
	if parser.IsMoveText(input) {
		return &Command{Type: CmdMove, Args: []string{input}, Raw: input}
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	args := parts[1:]
	switch strings.ToLower(parts[0]) {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "save":
		return &Command{Type: CmdSave, Args: args}
	case "load":
		return &Command{Type: CmdLoad, Args: args}
	case "saves":
		return &Command{Type: CmdSaves}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdMove, Args: []string{input}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// ReadLine prompts for a free-form answer; end of input reads as ""
func (c *CLI) ReadLine(prompt string) string {
	line, err := c.input.ReadLine(prompt)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	g := b.Grid()
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			piece := g[r][f]

			if c.theme == ThemeOff {
				if piece.IsEmpty() {
					sb.WriteString(". ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", piece.Letter()))
				}
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}

			if piece.IsEmpty() {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				color := theme.black
				if piece.Color == core.ColorWhite {
					color = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, piece.Letter(), theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game (or pick a saved one)
  <move>           - Make a move (e.g., e2 e4 or e2e4)
  undo [count]     - Undo last move(s), default 1
  save <name>      - Save the current game
  load <name|n>    - Load a saved game by name or list number
  saves            - List saved games
  color <theme>    - Set board color theme (off|brown|green|gray)
  history          - Show game move history
  quit/exit        - Exit the program
  help/?           - Show this help message

Castling is a king move of two squares, e.g. e1 g1.
Pawns reaching the last rank become queens.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, <move>, undo, save, load, saves, history, color, help/?, quit/exit")
	c.ShowMessage("")
}

// ShowNewGameMenu lists the choices offered by 'new'
func (c *CLI) ShowNewGameMenu(saves []string) {
	if len(saves) == 0 {
		c.ShowMessage("(N)ew game (no saved games available) or (X) to exit")
		return
	}
	lines := []string{"(N)ew game or choose a saved game, or (X) to exit"}
	for i, name := range saves {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, name))
	}
	c.ShowMessage(strings.Join(lines, "\n"))
}

func (c *CLI) ShowSaves(saves []string) {
	if len(saves) == 0 {
		c.ShowMessage("No saved games.")
		return
	}
	for i, name := range saves {
		c.ShowMessage(fmt.Sprintf("%d. %s", i+1, name))
	}
}

func (c *CLI) ShowTurn(color core.Color) {
	c.ShowMessage(fmt.Sprintf("%s to move. Enter your move:", color.Name()))
}

func (c *CLI) ShowInvalidFormat() {
	c.ShowMessage("Invalid format. Please use moves like 'e2 e4'.")
}

// ShowMoveResult reports a move attempt. Rejected moves get the retry message;
// accepted moves report check on the opponent. Mate and stalemate are left to
// ShowGameOver.
func (c *CLI) ShowMoveResult(res *game.MoveResult) {
	switch {
	case !res.Outcome.Applied():
		c.ShowMessage("Invalid move. Try again.")
	case res.GameState.IsOver():
	case res.Check:
		c.ShowMessage(fmt.Sprintf("%s is in check!", core.OppositeColor(res.PlayerColor).Name()))
	}
}

func (c *CLI) ShowGameHistory(moves []string, state core.State) {
	if len(moves) == 0 {
		c.ShowMessage("No moves yet.")
	}
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		white := moves[i]
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, white, moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, white))
		}
	}
	c.ShowMessage(fmt.Sprintf("Game state: %s", state))
}

func (c *CLI) ShowGameOver(state core.State) {
	switch state {
	case core.StateWhiteWins:
		c.ShowMessage("Checkmate! Black loses.")
	case core.StateBlackWins:
		c.ShowMessage("Checkmate! White loses.")
	case core.StateStalemate:
		c.ShowMessage("Stalemate! The game is drawn.")
	}
	c.ShowMessage("Start a new game with 'new' or 'load'.")
}
