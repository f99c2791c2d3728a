package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"bauernschach/internal/board"
	"bauernschach/internal/core"
	"bauernschach/internal/engine"
	"bauernschach/internal/game"
	"bauernschach/internal/observer"

	"github.com/google/uuid"
)

const defaultMaxGames = 1000

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrOperationFailed = errors.New("operation not possible")
	ErrTooManyGames    = errors.New("game limit reached")
)

type Config struct {
	Rows     int // Board size for games created without explicit dimensions
	Columns  int
	MaxGames int
}

// GameView is a versioned snapshot of one hosted game
type GameView struct {
	ID      string
	Version int
	State   game.Snapshot
}

// session serializes access to one engine; the engine itself is single-threaded
type session struct {
	mu       sync.Mutex
	engine   *engine.Engine
	version  int
	listener *observer.FuncListener
}

// Service hosts in-memory games keyed by uuid
type Service struct {
	games  map[string]*session
	mu     sync.RWMutex
	waiter *WaitRegistry
	cfg    Config
}

func New(cfg Config) *Service {
	if cfg.Rows <= 0 {
		cfg.Rows = board.DefaultRows
	}
	if cfg.Columns <= 0 {
		cfg.Columns = board.DefaultColumns
	}
	if cfg.MaxGames <= 0 {
		cfg.MaxGames = defaultMaxGames
	}
	return &Service{
		games:  make(map[string]*session),
		waiter: NewWaitRegistry(),
		cfg:    cfg,
	}
}

// CreateGame starts a game; zero dimensions fall back to the configured size
func (s *Service) CreateGame(rows, columns int) (GameView, error) {
	if rows == 0 {
		rows = s.cfg.Rows
	}
	if columns == 0 {
		columns = s.cfg.Columns
	}

	eng, err := engine.New(rows, columns)
	if err != nil {
		return GameView{}, fmt.Errorf("could not start game: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) >= s.cfg.MaxGames {
		return GameView{}, fmt.Errorf("%w: %d games", ErrTooManyGames, s.cfg.MaxGames)
	}

	id := s.generateGameID()
	sess := &session{engine: eng}
	sess.listener = observer.NewFunc(func(snap game.Snapshot) {
		// Runs inside the engine call, with sess.mu held by the caller
		sess.version++
		s.waiter.NotifyGame(id, sess.version)
		if snap.Status.IsTerminal() {
			log.Printf("Game %s ended: %s", id, snap.Status)
		}
	})
	eng.Subscribe(sess.listener)
	s.games[id] = sess

	log.Printf("Game %s created (%dx%d)", id, rows, columns)
	return GameView{ID: id, Version: 0, State: eng.State()}, nil
}

// GetGame returns the current view of a game
func (s *Service) GetGame(gameID string) (GameView, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return GameView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return GameView{ID: gameID, Version: sess.version, State: sess.engine.State()}, nil
}

func (s *Service) SelectPiece(gameID string, pieceID int) (GameView, error) {
	return s.apply(gameID, "select", func(e *engine.Engine) core.OperationStatus {
		return e.SelectByID(pieceID)
	})
}

func (s *Service) DeselectPiece(gameID string) (GameView, error) {
	return s.apply(gameID, "deselect", (*engine.Engine).Deselect)
}

func (s *Service) Move(gameID string, moveIndex int) (GameView, error) {
	return s.apply(gameID, "move", func(e *engine.Engine) core.OperationStatus {
		return e.Move(moveIndex)
	})
}

func (s *Service) Pass(gameID string) (GameView, error) {
	return s.apply(gameID, "pass", (*engine.Engine).Pass)
}

// DeleteGame removes a game and releases its waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	sess, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(s.games, gameID)
	s.mu.Unlock()

	sess.mu.Lock()
	sess.engine.Unsubscribe(sess.listener)
	sess.mu.Unlock()

	s.waiter.RemoveGame(gameID)
	log.Printf("Game %s deleted", gameID)
	return nil
}

// RegisterWait returns a channel signalled once the game moves past version
func (s *Service) RegisterWait(ctx context.Context, gameID string, version int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, version)
}

func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Shutdown drops all games and stops pending waiters
func (s *Service) Shutdown(timeout time.Duration) error {
	s.mu.Lock()
	s.games = make(map[string]*session)
	s.mu.Unlock()

	return s.waiter.Shutdown(timeout)
}

func (s *Service) apply(gameID, op string, fn func(*engine.Engine) core.OperationStatus) (GameView, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return GameView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if fn(sess.engine) != core.Success {
		return GameView{}, fmt.Errorf("%w: %s", ErrOperationFailed, op)
	}
	return GameView{ID: gameID, Version: sess.version, State: sess.engine.State()}, nil
}

func (s *Service) session(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return sess, nil
}

// generateGameID must be called with s.mu held
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}
