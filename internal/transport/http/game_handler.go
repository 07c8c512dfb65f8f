// FILE: internal/transport/http/game_handler.go
package http

import (
	"context"
	"errors"

	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/parser"
	"chessrules/internal/savefile"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGame starts a game from the standard position or a supplied one
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, _ := c.Locals(validatedBodyKey).(*CreateGameRequest)

	var (
		gameID string
		err    error
	)
	if req != nil && req.Position != nil {
		gameID, err = h.svc.CreateGameFromSave(req.Position)
	} else {
		gameID, err = h.svc.CreateGame()
	}
	if err != nil {
		return sendError(c, err)
	}

	st, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(st))
}

// GetGame returns the current game state. With ?wait=true&moveCount=N it
// holds the request until the game has a different number of moves.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var q WaitQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid query",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}
	if err := validate.Struct(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	var (
		st  *service.GameState
		err error
	)
	if q.Wait {
		st, err = h.svc.WaitForChange(c.UserContext(), gameID, q.MoveCount, h.waitTimeout)
	} else {
		st, err = h.svc.GetGame(gameID)
	}
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(buildGameResponse(st))
}

// MakeMove plays a move for the side to move. Moves the rules reject answer
// 400 INVALID_MOVE with the outcome in the details.
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	req := c.Locals(validatedBodyKey).(*MoveRequest)

	result, err := h.svc.MakeMove(c.UserContext(), gameID, req.Move)
	if err != nil {
		return sendError(c, err)
	}
	if !result.Outcome.Applied() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid move",
			Code:    core.ErrInvalidMove,
			Details: result.Outcome.String(),
		})
	}

	st, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}
	response := buildGameResponse(st)
	response.LastMove = moveInfo(result)
	return c.JSON(response)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	req := c.Locals(validatedBodyKey).(*UndoRequest)

	count := req.Count
	if count == 0 {
		count = 1
	}

	if err := h.svc.UndoMoves(gameID, count); err != nil {
		return sendError(c, err)
	}

	st, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(buildGameResponse(st))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.svc.DeleteGame(c.Params("gameId")); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns an ASCII rendering together with the position document
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	st, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(BoardResponse{
		Board:    st.Board.ToASCII(),
		Position: savefile.FromBoard(st.Board, st.Turn),
	})
}

func buildGameResponse(st *service.GameState) GameResponse {
	response := GameResponse{
		GameID: st.ID,
		Turn:   st.Turn.String(),
		State:  stateToString(st.State),
		Check:  st.Check,
		Moves:  st.Moves,
		Players: PlayersInfo{
			White: st.WhitePlayer.ID,
			Black: st.BlackPlayer.ID,
		},
		Position: savefile.FromBoard(st.Board, st.Turn),
	}
	if st.LastResult != nil {
		response.LastMove = moveInfo(st.LastResult)
	}
	return response
}

func moveInfo(r *game.MoveResult) *MoveInfo {
	return &MoveInfo{
		Move:    r.Move,
		Player:  r.PlayerColor.String(),
		Outcome: r.Outcome.String(),
		Check:   r.Check,
	}
}

// sendError maps service errors to status codes and error codes
func sendError(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusBadRequest, core.ErrInvalidRequest, "request failed"

	switch {
	case errors.Is(err, service.ErrGameNotFound):
		status, code, msg = fiber.StatusNotFound, core.ErrGameNotFound, "game not found"
	case errors.Is(err, parser.ErrInvalidFormat):
		code, msg = core.ErrInvalidFormat, "invalid move format"
	case errors.Is(err, game.ErrGameOver):
		code, msg = core.ErrGameOver, "game is over"
	case errors.Is(err, savefile.ErrInvalidDocument):
		code, msg = core.ErrInvalidState, "invalid position"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code, msg = fiber.StatusServiceUnavailable, core.ErrInternalError, "request cancelled"
	}

	return c.Status(status).JSON(ErrorResponse{
		Error:   msg,
		Code:    code,
		Details: err.Error(),
	})
}
