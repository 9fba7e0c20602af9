package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnw("failed to register connection", "game", gameID, "player", playerID, "error", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugw("read error", "game", gameID, "player", playerID, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(c, gameID, fmt.Errorf("parse error: %w", err))
			continue
		}

		reply, err := wsc.handleMessage(context.Background(), gameID, playerID, msg)
		if err != nil {
			log.Debugw("handle error", "game", gameID, "player", playerID, "type", msg.Type, "error", err)
			wsc.sendError(c, gameID, err)
			continue
		}
		if reply != nil {
			if err := wsc.gameService.Send(gameID, c, *reply); err != nil {
				log.Warnw("write error", "game", gameID, "player", playerID, "error", err)
			}
		}
	}
}

// handleMessage runs one inbound message. Moves are answered by the state
// broadcast, so only queries produce a direct reply.
func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
		}
		return nil, wsc.gameService.HandleMove(ctx, gameID, playerID, move)

	case ws.MessageTypeEngineMove:
		var req ws.EngineMoveRequest
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				return nil, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
			}
		}
		return nil, wsc.gameService.HandleEngineMove(ctx, gameID, playerID, req.Depth)

	case ws.MessageTypeLegalMoves:
		var sq model.Square
		if err := json.Unmarshal(msg.Payload, &sq); err != nil {
			return nil, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
		}
		moves, err := wsc.gameService.LegalMoves(gameID, sq)
		if err != nil {
			return nil, err
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, moves)
		if err != nil {
			return nil, err
		}
		return &reply, nil

	default:
		return nil, fmt.Errorf("%w: unknown message type %q", service.ErrInvalidRequest, msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(c *websocket.Conn, gameID string, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		return
	}
	if werr := wsc.gameService.Send(gameID, c, msg); werr != nil {
		log.Warnw("failed to send error", "error", werr)
	}
}
