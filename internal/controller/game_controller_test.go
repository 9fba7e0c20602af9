package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
	"github.com/benbeisheim/chess-ai-backend/internal/middleware"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
	"github.com/benbeisheim/chess-ai-backend/internal/testutil"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

func newTestApp() (*fiber.App, *service.GameService) {
	searcher := engine.NewSearcher(engine.Options{})
	gameService := service.NewGameService(service.NewGameManager(searcher), service.GameDefaults{
		Depth:         1,
		SearchTimeout: 5 * time.Second,
	})
	app := fiber.New()
	NewGameController(gameService).RegisterRoutes(app.Group("/api", middleware.EnsurePlayerID()))
	return app, gameService
}

func do(t *testing.T, app *fiber.App, method, url, playerID, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	resp, err := app.Test(req, -1)
	testutil.AssertNoError(t, err, "%s %s", method, url)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	testutil.AssertNoError(t, err)
	return resp.StatusCode, data
}

func createGame(t *testing.T, app *fiber.App, playerID, body string) string {
	t.Helper()
	status, data := do(t, app, http.MethodPost, "/api/game/create", playerID, body)
	testutil.AssertEqual(t, status, http.StatusOK, "create: %s", data)

	var resp struct {
		Message string `json:"message"`
		GameID  string `json:"game_id"`
	}
	testutil.AssertNoError(t, json.Unmarshal(data, &resp))
	if resp.GameID == "" {
		t.Fatalf("no game id in %s", data)
	}
	return resp.GameID
}

func decodeState(t *testing.T, data []byte) model.GameState {
	t.Helper()
	var state model.GameState
	testutil.AssertNoError(t, json.Unmarshal(data, &state), "decode %s", data)
	return state
}

func TestRequiresPlayerID(t *testing.T) {
	app, _ := newTestApp()
	status, _ := do(t, app, http.MethodGet, "/api/games", "", "")
	testutil.AssertEqual(t, status, http.StatusUnauthorized)

	status, _ = do(t, app, http.MethodGet, "/api/games?playerId=alice", "", "")
	testutil.AssertEqual(t, status, http.StatusOK)
}

func TestGameLifecycle(t *testing.T) {
	app, _ := newTestApp()
	gameID := createGame(t, app, "alice", "")

	status, data := do(t, app, http.MethodGet, "/api/game/"+gameID, "alice", "")
	testutil.AssertEqual(t, status, http.StatusOK)
	state := decodeState(t, data)
	testutil.AssertEqual(t, state.Board, model.NewBoard())
	testutil.AssertEqual(t, state.ToMove, model.White)

	status, data = do(t, app, http.MethodGet, "/api/game/"+gameID+"/moves?row=6&col=4", "alice", "")
	testutil.AssertEqual(t, status, http.StatusOK)
	var moves struct {
		From  model.Square `json:"from"`
		Moves []struct {
			From model.Square `json:"from"`
			To   model.Square `json:"to"`
			Kind string       `json:"kind"`
		} `json:"moves"`
	}
	testutil.AssertNoError(t, json.Unmarshal(data, &moves))
	testutil.AssertEqual(t, moves.From, model.Square{Row: 6, Col: 4})
	if len(moves.Moves) != 2 || moves.Moves[0].Kind != "normal" {
		t.Fatalf("unexpected moves %s", data)
	}

	status, data = do(t, app, http.MethodPost, "/api/game/"+gameID+"/move", "alice",
		`{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`)
	testutil.AssertEqual(t, status, http.StatusOK, "move: %s", data)
	state = decodeState(t, data)
	testutil.AssertEqual(t, state.ToMove, model.White)
	testutil.AssertEqual(t, state.Board[4][4], model.Slot{Type: model.Pawn, Color: model.White})

	status, data = do(t, app, http.MethodPost, "/api/game/"+gameID+"/engine-move?depth=1", "alice", "")
	testutil.AssertEqual(t, status, http.StatusOK, "engine move: %s", data)
	testutil.AssertEqual(t, decodeState(t, data).ToMove, model.White)

	status, data = do(t, app, http.MethodGet, "/api/games", "alice", "")
	testutil.AssertEqual(t, status, http.StatusOK)
	var list struct {
		Games []string `json:"games"`
	}
	testutil.AssertNoError(t, json.Unmarshal(data, &list))
	testutil.AssertEqual(t, list.Games, []string{gameID})
}

func TestErrorStatuses(t *testing.T) {
	app, _ := newTestApp()
	gameID := createGame(t, app, "alice", `{"humanColor":"white","depth":1}`)

	tests := []struct {
		name   string
		method string
		url    string
		player string
		body   string
		want   int
	}{
		{"unknown game", http.MethodGet, "/api/game/missing", "alice", "", http.StatusNotFound},
		{"moves of the other side", http.MethodGet, "/api/game/" + gameID + "/moves?row=1&col=4", "alice", "", http.StatusConflict},
		{"moves off the board", http.MethodGet, "/api/game/" + gameID + "/moves?row=9&col=4", "alice", "", http.StatusBadRequest},
		{"moves of an empty square", http.MethodGet, "/api/game/" + gameID + "/moves?row=4&col=4", "alice", "", http.StatusBadRequest},
		{"illegal move", http.MethodPost, "/api/game/" + gameID + "/move", "alice", `{"from":{"row":6,"col":4},"to":{"row":3,"col":4}}`, http.StatusUnprocessableEntity},
		{"stranger moves", http.MethodPost, "/api/game/" + gameID + "/move", "bob", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`, http.StatusForbidden},
		{"malformed move", http.MethodPost, "/api/game/" + gameID + "/move", "alice", `{"from":`, http.StatusBadRequest},
		{"join a full game", http.MethodPost, "/api/game/join/" + gameID, "bob", "", http.StatusConflict},
		{"negative depth", http.MethodPost, "/api/game/" + gameID + "/engine-move?depth=-1", "alice", "", http.StatusBadRequest},
		{"bad color", http.MethodPost, "/api/game/create", "alice", `{"humanColor":"green"}`, http.StatusBadRequest},
		{"bad fen", http.MethodPost, "/api/game/create", "alice", `{"fen":"xyz"}`, http.StatusBadRequest},
		{"malformed create", http.MethodPost, "/api/game/create", "alice", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, tt.method, tt.url, tt.player, tt.body)
			testutil.AssertEqual(t, status, tt.want, "body %s", data)
		})
	}
}

func TestJoinOpenGame(t *testing.T) {
	app, gameService := newTestApp()
	gameID, err := gameService.CreateGame(context.Background(), "", service.CreateGameRequest{HumanColor: "black"})
	testutil.AssertNoError(t, err)

	status, data := do(t, app, http.MethodPost, "/api/game/join/"+gameID, "carol", "")
	testutil.AssertEqual(t, status, http.StatusOK)
	var resp struct {
		Color model.Color `json:"color"`
	}
	testutil.AssertNoError(t, json.Unmarshal(data, &resp))
	testutil.AssertEqual(t, resp.Color, model.Black)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrGameNotFound, fiber.StatusNotFound},
		{fmt.Errorf("wrapped: %w", model.ErrInvalidFEN), fiber.StatusBadRequest},
		{engine.ErrInvalidDepth, fiber.StatusBadRequest},
		{model.ErrNotAPlayer, fiber.StatusForbidden},
		{model.ErrGameOver, fiber.StatusConflict},
		{service.ErrGameExists, fiber.StatusConflict},
		{model.ErrWrongPiece, fiber.StatusUnprocessableEntity},
		{errors.New("anything else"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, errorStatus(tt.err), tt.want, "%v", tt.err)
	}
}

func TestHandleMessage(t *testing.T) {
	_, gameService := newTestApp()
	ctx := context.Background()
	gameID, err := gameService.CreateGame(ctx, "alice", service.CreateGameRequest{})
	testutil.AssertNoError(t, err)
	wsc := NewWebSocketController(gameService)

	query, err := ws.NewMessage(ws.MessageTypeLegalMoves, model.Square{Row: 7, Col: 6})
	testutil.AssertNoError(t, err)
	reply, err := wsc.handleMessage(ctx, gameID, "alice", query)
	testutil.AssertNoError(t, err)
	if reply == nil {
		t.Fatal("legal moves query got no reply")
	}
	testutil.AssertEqual(t, reply.Type, ws.MessageTypeLegalMoves)
	var moves []struct {
		To model.Square `json:"to"`
	}
	testutil.AssertNoError(t, json.Unmarshal(reply.Payload, &moves))
	testutil.AssertEqual(t, len(moves), 2)

	play, err := ws.NewMessage(ws.MessageTypeMove, model.SimpleMove{
		From: model.Square{Row: 6, Col: 3},
		To:   model.Square{Row: 4, Col: 3},
	})
	testutil.AssertNoError(t, err)
	reply, err = wsc.handleMessage(ctx, gameID, "alice", play)
	testutil.AssertNoError(t, err)
	if reply != nil {
		t.Errorf("move should be answered by broadcast, got %s", reply.Type)
	}
	state, err := gameService.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.ToMove, model.White)

	_, err = wsc.handleMessage(ctx, gameID, "alice", ws.Message{Type: "resign"})
	testutil.AssertErrorIs(t, err, service.ErrInvalidRequest)

	_, err = wsc.handleMessage(ctx, gameID, "alice", ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`"e4"`)})
	testutil.AssertErrorIs(t, err, service.ErrInvalidRequest)
}
