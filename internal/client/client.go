// FILE: internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chessrules/internal/savefile"
	api "chessrules/internal/transport/http"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Client talks to the chess API server
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client. The timeout leaves room for long-poll requests.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 40 * time.Second,
		},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Code != "" {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Error
			apiErr.Details = errResp.Details
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// API Methods

func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	var resp map[string]interface{}
	err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp)
	return resp, err
}

// CreateGame starts a game; a nil position means the standard start
func (c *Client) CreateGame(ctx context.Context, position *savefile.Document) (*api.GameResponse, error) {
	var resp api.GameResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/games", &api.CreateGameRequest{Position: position}, &resp)
	return &resp, err
}

func (c *Client) GetGame(ctx context.Context, gameID string) (*api.GameResponse, error) {
	var resp api.GameResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// WaitForMove long-polls until the game no longer has moveCount moves or the
// server's wait timeout passes
func (c *Client) WaitForMove(ctx context.Context, gameID string, moveCount int) (*api.GameResponse, error) {
	var resp api.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount)
	err := c.doRequest(ctx, http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) MakeMove(ctx context.Context, gameID, move string) (*api.GameResponse, error) {
	var resp api.GameResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/moves", &api.MoveRequest{Move: move}, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(ctx context.Context, gameID string, count int) (*api.GameResponse, error) {
	var resp api.GameResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/undo", &api.UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(ctx context.Context, gameID string) (*api.BoardResponse, error) {
	var resp api.BoardResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}
