package controller

import (
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// RegisterRoutes mounts the game endpoints on router.
func (gc *GameController) RegisterRoutes(router fiber.Router) {
	router.Get("/games", gc.ListGames)

	gameRoutes := router.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Get("/:gameId/moves", gc.LegalMoves)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/engine-move", gc.EngineMove)
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "malformed request body",
			})
		}
	}
	playerID := c.Locals("playerID").(string)

	gameID, err := gc.gameService.CreateGame(c.UserContext(), playerID, req)
	if err != nil {
		if gameID == "" {
			return replyError(c, err)
		}
		// the game exists; only the engine's opening move failed
		log.Warnw("engine failed to open", "game", gameID, "error", err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return replyError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"games": gc.gameService.ListGames(),
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return replyError(c, err)
	}

	return c.JSON(gameState)
}

// LegalMoves lists the candidate moves of the piece on ?row=&col=.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	sq := model.Square{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), sq)
	if err != nil {
		return replyError(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  sq,
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.SimpleMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed move",
		})
	}
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.HandleMove(c.UserContext(), gameID, playerID, move); err != nil {
		return replyError(c, err)
	}
	return gc.GetGameState(c)
}

// EngineMove has the engine play for the side to move, at ?depth= plies.
func (gc *GameController) EngineMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.HandleEngineMove(c.UserContext(), gameID, playerID, c.QueryInt("depth", 0)); err != nil {
		return replyError(c, err)
	}
	return gc.GetGameState(c)
}
