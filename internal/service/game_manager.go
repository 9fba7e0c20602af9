// service/game_manager.go
package service

import (
	"context"
	"sync"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GameManager owns every live game. Its lock only guards the registry;
// games serialize their own moves, so a long search in one game does not
// block the others.
type GameManager struct {
	games    map[string]*model.Game
	opponent model.Opponent
	mu       sync.RWMutex
}

func NewGameManager(opponent model.Opponent) *GameManager {
	return &GameManager{
		games:    make(map[string]*model.Game),
		opponent: opponent,
	}
}

func (gm *GameManager) CreateGame(gameID string, opts model.GameOptions) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	game := model.NewGame(gameID, gm.opponent, opts)
	gm.games[gameID] = game
	log.Infow("game created", "game", gameID, "human", opts.HumanColor, "depth", opts.Depth)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

// ListGames returns the ids of all games, sorted.
func (gm *GameManager) ListGames() []string {
	gm.mu.RLock()
	ids := maps.Keys(gm.games)
	gm.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.NoColor, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, sq model.Square) ([]model.Move, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMovesFrom(sq)
}

func (gm *GameManager) MakeMove(ctx context.Context, gameID string, playerID string, move model.SimpleMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(ctx, playerID, move)
}

func (gm *GameManager) PlayEngineMove(ctx context.Context, gameID string, playerID string, depth int) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.PlayEngineMove(ctx, playerID, depth)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}

func (gm *GameManager) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(conn, msg)
}
