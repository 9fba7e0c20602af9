package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-ai-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

const (
	ResolveCheckmate    = "checkmate"
	ResolveKingCaptured = "king-captured"
	ResolveNoMoves      = "no-moves"
)

// EnginePlayerID is the seat name of the automated opponent.
const EnginePlayerID = "engine"

// Opponent picks a move for turn by searching depth plies.
type Opponent interface {
	BestMove(ctx context.Context, b Board, turn Color, depth int) (Move, error)
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	// a websocket allows one writer at a time
	writeMu sync.Mutex
}

// Game is one human seat against the engine, plus whoever watches it.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
	opponent    Opponent
	depth       int
	strict      bool
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          Board          `json:"board"`
	FEN            string         `json:"fen"`
	ToMove         Color          `json:"toMove"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *string        `json:"resolve"`
	Winner         *Color         `json:"winner"`
	Depth          int            `json:"depth"`
	Players        struct {
		Human  ClientPlayer `json:"human"`
		Engine ClientPlayer `json:"engine"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

type CapturedPieces struct {
	White []Slot `json:"white"` // taken by white
	Black []Slot `json:"black"` // taken by black
}

type GameOptions struct {
	HumanColor Color
	Depth      int
	// Strict filters out moves that leave the mover's king in check.
	Strict bool
	// Board and ToMove override the starting position when Board is set.
	Board  *Board
	ToMove Color
}

func NewGame(id string, opponent Opponent, opts GameOptions) *Game {
	return &Game{
		ID:          id,
		state:       newGameState(opts),
		connections: NewGameConnections(),
		opponent:    opponent,
		depth:       opts.Depth,
		strict:      opts.Strict,
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func newGameState(opts GameOptions) GameState {
	board := NewBoard()
	toMove := White
	if opts.Board != nil {
		board = *opts.Board
		if opts.ToMove != NoColor {
			toMove = opts.ToMove
		}
	}
	humanColor := opts.HumanColor
	if humanColor == NoColor {
		humanColor = White
	}

	state := GameState{
		Board:  board,
		FEN:    board.FEN(toMove),
		ToMove: toMove,
		CapturedPieces: CapturedPieces{
			White: make([]Slot, 0),
			Black: make([]Slot, 0),
		},
		Depth: opts.Depth,
	}
	state.Players.Human = ClientPlayer{Color: humanColor}
	state.Players.Engine = ClientPlayer{ID: EnginePlayerID, Color: humanColor.Opponent()}
	state.IsCheck = IsInCheck(board, toMove)
	if state.IsCheck && IsInCheckmate(board, toMove) {
		result, winner := ResolveCheckmate, toMove.Opponent()
		state.Resolve = &result
		state.Winner = &winner
	}
	return state
}

// AddPlayer seats playerID as the human. Rejoining with the same id is fine.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("adding player", "game", g.ID, "player", playerID)

	human := &g.state.Players.Human
	if human.ID == "" || human.ID == playerID {
		human.ID = playerID
		return human.Color, nil
	}
	return NoColor, ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return g.state.Players.Human.ID != "" && g.state.Players.Human.ID == playerID
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.Human.ID == ""
}

// LegalMovesFrom lists the candidate moves of the piece on sq, which must
// belong to the side to move.
func (g *Game) LegalMovesFrom(sq Square) ([]Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, err := g.state.Board.PieceAt(sq)
	if err != nil {
		return nil, err
	}
	if slot.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrNoPiece, sq)
	}
	if slot.Color != g.state.ToMove {
		return nil, fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.state.ToMove)
	}
	return g.candidates(sq, slot)
}

func (g *Game) candidates(sq Square, slot Slot) ([]Move, error) {
	if g.strict {
		return SafeMoves(g.state.Board, sq, slot.Type, slot.Color)
	}
	return LegalMoves(g.state.Board, sq, slot.Type, slot.Color)
}

// Start lets the engine open when it holds the side to move.
func (g *Game) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.advanceEngine(ctx)
	go g.broadcastState(g.state)
	return err
}

// MakeMove plays the human's move and then the engine's reply.
func (g *Game) MakeMove(ctx context.Context, playerID string, move SimpleMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("making move", "game", g.ID, "player", playerID, "from", move.From.String(), "to", move.To.String())

	if err := g.checkHumanTurn(playerID); err != nil {
		return err
	}
	if err := g.validateMove(move); err != nil {
		return err
	}
	candidate, err := g.findCandidate(move)
	if err != nil {
		return err
	}
	g.executeMove(candidate)

	err = g.advanceEngine(ctx)
	go g.broadcastState(g.state)
	return err
}

// PlayEngineMove has the engine move for the side to move, at depth plies
// (the game's depth when depth is not positive). If that hands the turn to
// the engine's own side, the engine replies as usual.
func (g *Game) PlayEngineMove(ctx context.Context, playerID string, depth int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	if !g.isPlayerInGame(playerID) {
		return ErrNotAPlayer
	}
	if depth <= 0 {
		depth = g.depth
	}
	err := g.playEngine(ctx, depth)
	if err == nil {
		err = g.advanceEngine(ctx)
	}
	go g.broadcastState(g.state)
	return err
}

func (g *Game) checkHumanTurn(playerID string) error {
	if g.state.Resolve != nil {
		return ErrGameOver
	}
	if !g.isPlayerInGame(playerID) {
		return ErrNotAPlayer
	}
	if g.state.ToMove != g.state.Players.Human.Color {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) validateMove(move SimpleMove) error {
	if !move.From.Valid() || !move.To.Valid() {
		return fmt.Errorf("%w: %s -> %s", ErrOutOfRange, move.From, move.To)
	}
	slot := g.state.Board.at(move.From)
	if slot.Empty() {
		return fmt.Errorf("%w: %s", ErrNoPiece, move.From)
	}
	if slot.Color != g.state.ToMove {
		return fmt.Errorf("%w: %s belongs to %s", ErrNotYourTurn, move.From, slot.Color)
	}
	return nil
}

func (g *Game) findCandidate(move SimpleMove) (Move, error) {
	moves, err := g.candidates(move.From, g.state.Board.at(move.From))
	if err != nil {
		return Move{}, err
	}
	candidate, ok := FindMove(moves, move.From, move.To)
	if !ok {
		return Move{}, fmt.Errorf("%w: %s -> %s", ErrIllegalMove, move.From, move.To)
	}
	return candidate, nil
}

// advanceEngine plays for the engine while it holds the side to move.
func (g *Game) advanceEngine(ctx context.Context) error {
	for g.state.Resolve == nil && g.state.ToMove == g.state.Players.Engine.Color {
		if err := g.playEngine(ctx, g.depth); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) playEngine(ctx context.Context, depth int) error {
	move, err := g.opponent.BestMove(ctx, g.state.Board, g.state.ToMove, depth)
	if errors.Is(err, ErrNoMoves) {
		log.Infow("no move available, game over", "game", g.ID, "side", g.state.ToMove)
		g.resolve(ResolveNoMoves, nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("engine move for %s: %w", g.state.ToMove, err)
	}
	g.executeMove(move)
	return nil
}

// executeMove applies move and its promotion, records what it took, hands
// the turn over and updates check and game-end status.
func (g *Game) executeMove(move Move) {
	mover := move.Mover().Color
	captured := move.Captured()

	g.state.Sound = "move"
	switch {
	case move.Kind == MoveCastle:
		g.state.Sound = "castle"
	case !captured.Empty():
		g.state.Sound = "capture"
		switch mover {
		case White:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, captured)
		case Black:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, captured)
		}
	}
	if move.Kind == MovePromotion {
		g.state.Sound = "promote"
	}

	g.state.Board = ApplyPromotion(move.Apply(), move.To, mover)
	last := move.Simple()
	g.state.LastMove = &last
	g.state.ToMove = mover.Opponent()
	g.state.FEN = g.state.Board.FEN(g.state.ToMove)

	if _, ok := g.state.Board.FindKing(g.state.ToMove); !ok {
		g.resolve(ResolveKingCaptured, &mover)
		return
	}
	g.state.IsCheck = IsInCheck(g.state.Board, g.state.ToMove)
	if g.state.IsCheck {
		g.state.Sound = "check"
		if IsInCheckmate(g.state.Board, g.state.ToMove) {
			g.resolve(ResolveCheckmate, &mover)
		}
	}
}

func (g *Game) resolve(result string, winner *Color) {
	g.state.Resolve = &result
	g.state.Winner = winner
	log.Infow("game resolved", "game", g.ID, "result", result)
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Debugw("registering connection", "game", g.ID, "player", playerID, "conn", connID)

	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	state := g.state
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	go g.broadcastState(state)
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Debugw("unregistering connection", "game", g.ID, "player", playerID)
		delete(g.connections.connections, playerID)
	}
}

// broadcastState sends a snapshot of the state to every open connection,
// dropping the ones that fail.
func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorw("failed to marshal state", "game", g.ID, "error", err)
		return
	}

	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}
	for playerID, conn := range activeConnections {
		if err := g.Send(conn, msg); err != nil {
			log.Warnw("failed to send state", "game", g.ID, "player", playerID, "error", err)
			g.connections.mu.Lock()
			delete(g.connections.connections, playerID)
			g.connections.mu.Unlock()
		}
	}
}

// Send writes msg to conn without interleaving with the game's broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}
