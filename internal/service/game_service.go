package service

import (
	"context"
	"fmt"
	"time"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// GameDefaults apply to every game unless a request overrides them.
type GameDefaults struct {
	Depth         int
	Strict        bool
	SearchTimeout time.Duration
}

type GameService struct {
	gameManager *GameManager
	defaults    GameDefaults
}

func NewGameService(gameManager *GameManager, defaults GameDefaults) *GameService {
	return &GameService{
		gameManager: gameManager,
		defaults:    defaults,
	}
}

// CreateGameRequest is the body of a create call. Every field is optional.
type CreateGameRequest struct {
	HumanColor string `json:"humanColor"`
	Depth      int    `json:"depth"`
	FEN        string `json:"fen"`
}

// CreateGame registers a new game, seats playerID as the human and lets the
// engine open if it has the first move.
func (gs *GameService) CreateGame(ctx context.Context, playerID string, req CreateGameRequest) (string, error) {
	opts := model.GameOptions{
		HumanColor: model.White,
		Depth:      gs.defaults.Depth,
		Strict:     gs.defaults.Strict,
	}
	if req.HumanColor != "" {
		color, ok := model.ParseColor(req.HumanColor)
		if !ok {
			return "", fmt.Errorf("%w: unknown color %q", ErrInvalidRequest, req.HumanColor)
		}
		opts.HumanColor = color
	}
	if req.Depth < 0 {
		return "", fmt.Errorf("%w: depth must not be negative", ErrInvalidRequest)
	}
	if req.Depth > 0 {
		opts.Depth = req.Depth
	}
	if req.FEN != "" {
		board, toMove, err := model.ParseFEN(req.FEN)
		if err != nil {
			return "", err
		}
		opts.Board = &board
		opts.ToMove = toMove
	}

	gameID := uuid.New().String()
	game, err := gs.gameManager.CreateGame(gameID, opts)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	if playerID != "" {
		if _, err := game.AddPlayer(playerID); err != nil {
			return "", err
		}
	}

	ctx, cancel := gs.searchContext(ctx)
	defer cancel()
	if err := game.Start(ctx); err != nil {
		return gameID, err
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) HasGame(gameID string) bool {
	_, err := gs.gameManager.GetGame(gameID)
	return err == nil
}

func (gs *GameService) ListGames() []string {
	return gs.gameManager.ListGames()
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string, sq model.Square) ([]model.Move, error) {
	return gs.gameManager.LegalMoves(gameID, sq)
}

func (gs *GameService) HandleMove(ctx context.Context, gameID string, playerID string, move model.SimpleMove) error {
	ctx, cancel := gs.searchContext(ctx)
	defer cancel()
	return gs.gameManager.MakeMove(ctx, gameID, playerID, move)
}

func (gs *GameService) HandleEngineMove(ctx context.Context, gameID string, playerID string, depth int) error {
	if depth < 0 {
		return fmt.Errorf("%w: depth must not be negative", ErrInvalidRequest)
	}
	ctx, cancel := gs.searchContext(ctx)
	defer cancel()
	return gs.gameManager.PlayEngineMove(ctx, gameID, playerID, depth)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}

// Send writes a direct reply on a game's connection.
func (gs *GameService) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	return gs.gameManager.Send(gameID, conn, msg)
}

// searchContext bounds engine work by SearchTimeout, when one is set.
func (gs *GameService) searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if gs.defaults.SearchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, gs.defaults.SearchTimeout)
}
