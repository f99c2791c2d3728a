package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bauernschach/internal/core"
)

func newGame(t *testing.T, svc *Service) GameView {
	t.Helper()
	view, err := svc.CreateGame(0, 0)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	return view
}

func TestCreateGameUsesConfiguredSize(t *testing.T) {
	svc := New(Config{Rows: 5, Columns: 4})
	view := newGame(t, svc)

	if view.State.Board.NumRows() != 5 || view.State.Board.NumColumns() != 4 {
		t.Fatalf("expected 5x4 board, got %dx%d", view.State.Board.NumRows(), view.State.Board.NumColumns())
	}
	if view.Version != 0 || svc.GameCount() != 1 {
		t.Fatalf("unexpected version %d or count %d", view.Version, svc.GameCount())
	}

	got, err := svc.GetGame(view.ID)
	if err != nil || got.ID != view.ID {
		t.Fatalf("GetGame failed: %v", err)
	}
}

func TestCreateGameRejectsUnplayableBoard(t *testing.T) {
	svc := New(Config{})
	if _, err := svc.CreateGame(1, 8); err == nil {
		t.Fatalf("expected error for single-row board")
	}
	if svc.GameCount() != 0 {
		t.Fatalf("failed creation must not register a game")
	}
}

func TestGameLimit(t *testing.T) {
	svc := New(Config{MaxGames: 1})
	newGame(t, svc)
	if _, err := svc.CreateGame(0, 0); !errors.Is(err, ErrTooManyGames) {
		t.Fatalf("expected ErrTooManyGames, got %v", err)
	}
}

func TestOperationsBumpVersion(t *testing.T) {
	svc := New(Config{})
	view := newGame(t, svc)

	v, err := svc.SelectPiece(view.ID, 0)
	if err != nil || v.Version != 1 {
		t.Fatalf("select: version=%d err=%v", v.Version, err)
	}
	v, err = svc.Move(view.ID, 1)
	if err != nil || v.Version != 2 || v.State.Turn != core.ColorBlack {
		t.Fatalf("move: version=%d turn=%s err=%v", v.Version, v.State.Turn, err)
	}
	v, err = svc.Pass(view.ID)
	if err != nil || v.Version != 3 || v.State.Turn != core.ColorWhite {
		t.Fatalf("pass: version=%d turn=%s err=%v", v.Version, v.State.Turn, err)
	}
	v, err = svc.SelectPiece(view.ID, 1)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if v, err = svc.DeselectPiece(view.ID); err != nil || v.Version != 5 {
		t.Fatalf("deselect: version=%d err=%v", v.Version, err)
	}
}

func TestFailedOperationReported(t *testing.T) {
	svc := New(Config{})
	view := newGame(t, svc)

	if _, err := svc.DeselectPiece(view.ID); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}
	if _, err := svc.Move(view.ID, 0); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}
	got, _ := svc.GetGame(view.ID)
	if got.Version != 0 {
		t.Fatalf("failed operations must not bump version, got %d", got.Version)
	}
}

func TestUnknownGame(t *testing.T) {
	svc := New(Config{})
	if _, err := svc.GetGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := svc.Pass("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if err := svc.DeleteGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestWaitWokenByStateChange(t *testing.T) {
	svc := New(Config{})
	view := newGame(t, svc)

	notify := svc.RegisterWait(context.Background(), view.ID, view.Version)
	if _, err := svc.Pass(view.ID); err != nil {
		t.Fatalf("pass: %v", err)
	}

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatalf("waiter not notified")
	}
}

func TestWaitWokenByDelete(t *testing.T) {
	svc := New(Config{})
	view := newGame(t, svc)

	notify := svc.RegisterWait(context.Background(), view.ID, view.Version)
	if err := svc.DeleteGame(view.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatalf("waiter not released on delete")
	}
	if svc.GameCount() != 0 {
		t.Fatalf("expected no games left")
	}
}

func TestWaitCancelledContextRemovesWaiter(t *testing.T) {
	w := NewWaitRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	w.RegisterWait(ctx, "g", 0)
	if w.pending("g") != 1 {
		t.Fatalf("expected one pending waiter")
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for w.pending("g") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("waiter not removed after cancellation")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestShutdownReleasesWaiters(t *testing.T) {
	svc := New(Config{})
	view := newGame(t, svc)
	notify := svc.RegisterWait(context.Background(), view.ID, view.Version)

	if err := svc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case <-notify:
	default:
		t.Fatalf("waiter not released on shutdown")
	}
	if svc.GameCount() != 0 {
		t.Fatalf("expected games dropped on shutdown")
	}
}
