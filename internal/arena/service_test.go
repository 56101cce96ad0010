// internal/arena/service_test.go

package arena_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stonegarden/goban/internal/arena"
	"github.com/stonegarden/goban/internal/game"
	"github.com/stonegarden/goban/internal/store"
)

func newService(t *testing.T) (*arena.Service, *arena.Session) {
	t.Helper()
	svc := arena.NewService(store.NewMemory())
	sess, err := svc.Create(context.Background(), game.RuleSet{Kind: game.KindGomoku, BoardSize: 15})
	require.NoError(t, err)
	return svc, sess
}

func TestCreateStartsWaiting(t *testing.T) {
	_, sess := newService(t)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, game.StatusWaiting, sess.Game.Status)
	assert.Empty(t, sess.Black)
	assert.Empty(t, sess.White)
}

func TestCreateRejectsBadRules(t *testing.T) {
	svc := arena.NewService(store.NewMemory())
	_, err := svc.Create(context.Background(), game.RuleSet{Kind: game.KindGomoku, BoardSize: 10})
	assert.ErrorIs(t, err, game.ErrInvalidRuleSet)
}

func TestGetUnknownID(t *testing.T) {
	svc := arena.NewService(store.NewMemory())
	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, arena.ErrNotFound)
}

func TestJoinSeatsInOrder(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()

	seat, cp, err := svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, game.Black, seat)
	assert.Equal(t, game.StatusWaiting, cp.Game.Status, "one seat is not enough to start")

	seat, cp, err = svc.Join(ctx, sess.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, game.White, seat)
	assert.Equal(t, game.StatusActive, cp.Game.Status, "second join starts the game")

	// rejoin keeps the original seat
	seat, _, err = svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, game.Black, seat)

	// a third player is a spectator
	seat, _, err = svc.Join(ctx, sess.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, game.Empty, seat)
}

func TestSpectatorCannotMove(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()
	_, _, err := svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, sess.ID, "bob")
	require.NoError(t, err)

	_, _, err = svc.Move(ctx, sess.ID, "carol", 7, 7)
	assert.ErrorIs(t, err, arena.ErrNotAPlayer)
}

func TestMoveFlowAndHistory(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()
	_, _, err := svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, sess.ID, "bob")
	require.NoError(t, err)

	res, cp, err := svc.Move(ctx, sess.ID, "alice", 7, 7)
	require.NoError(t, err)
	assert.Equal(t, game.White, res.NextPlayer)
	require.Len(t, cp.Moves, 1)
	assert.Equal(t, arena.MoveRecord{Color: game.Black, Row: 7, Col: 7}, cp.Moves[0])

	// engine rejections pass through untranslated
	_, _, err = svc.Move(ctx, sess.ID, "alice", 7, 8)
	assert.ErrorIs(t, err, game.ErrNotYourTurn)
	_, _, err = svc.Move(ctx, sess.ID, "bob", 7, 7)
	assert.ErrorIs(t, err, game.ErrCellOccupied)
}

func TestResignSetsResult(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()
	_, _, err := svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, sess.ID, "bob")
	require.NoError(t, err)

	res, cp, err := svc.Resign(ctx, sess.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, game.White, res.Winner)
	assert.Equal(t, "W+R", cp.Result)
}

func TestDoublePassScoresResult(t *testing.T) {
	svc := arena.NewService(store.NewMemory())
	ctx := context.Background()
	sess, err := svc.Create(ctx, game.RuleSet{Kind: game.KindGo, BoardSize: 9, Komi: 6.5})
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, sess.ID, "bob")
	require.NoError(t, err)

	_, _, err = svc.Move(ctx, sess.ID, "alice", 4, 4)
	require.NoError(t, err)
	_, _, err = svc.Pass(ctx, sess.ID, "bob")
	require.NoError(t, err)
	res, cp, err := svc.Pass(ctx, sess.ID, "alice")
	require.NoError(t, err)

	require.NotNil(t, res.Score)
	// one black stone owns the whole board: 81 to black, komi to white
	assert.Equal(t, "B+74.5", cp.Result)
	assert.Equal(t, game.StatusFinished, cp.Game.Status)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()
	_, _, err := svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)
	_, cp, err := svc.Join(ctx, sess.ID, "bob")
	require.NoError(t, err)

	// scribbling on a snapshot must not leak into the service's state
	require.NoError(t, cp.Game.Board.Set(0, 0, game.White))
	fresh, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	st, _ := fresh.Game.Board.At(0, 0)
	assert.Equal(t, game.Empty, st)
}

func TestSubscribeReceivesBroadcasts(t *testing.T) {
	svc, sess := newService(t)
	svc.SetRenderer(func(s *arena.Session) []byte { return []byte(s.ID) })
	ctx := context.Background()

	ch, unsub := svc.Subscribe(ctx, sess.ID)
	defer unsub()

	_, _, err := svc.Join(ctx, sess.ID, "alice")
	require.NoError(t, err)

	select {
	case payload := <-ch:
		assert.Equal(t, sess.ID, string(payload))
	case <-time.After(time.Second):
		t.Fatal("no broadcast after join")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	svc, sess := newService(t)
	ch, unsub := svc.Subscribe(context.Background(), sess.ID)
	unsub()
	_, ok := <-ch
	assert.False(t, ok, "channel closes on unsubscribe")
}

func TestSubscribeContextCancelCloses(t *testing.T) {
	svc, sess := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := svc.Subscribe(ctx, sess.ID)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
