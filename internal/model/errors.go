package model

import "errors"

var (
	ErrOutOfRange  = errors.New("square out of range")
	ErrNoPiece     = errors.New("no piece at square")
	ErrWrongPiece  = errors.New("piece does not match square")
	ErrNotYourTurn = errors.New("not your turn")
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
	ErrGameFull    = errors.New("game is full")
	ErrNotAPlayer  = errors.New("player not in game")
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrNoMoves     = errors.New("no move available")
)
