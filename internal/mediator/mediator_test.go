package mediator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{ N int }

func (ping) Kind() Kind { return "test.ping" }

type pong struct{ N int }

type missing struct{}

func (missing) Kind() Kind { return "test.missing" }

type itemDeleted struct{ ID uint }

func (itemDeleted) Kind() Kind { return "test.item_deleted" }

func newMediator(t *testing.T) *Mediator {
	t.Helper()
	m := New(nil)
	require.NoError(t, Register(m, func(ctx context.Context, req ping) (pong, error) {
		return pong{N: req.N + 1}, nil
	}))
	return m
}

func TestSendRoutesToRegisteredHandler(t *testing.T) {
	m := newMediator(t)

	res, err := Send[pong](context.Background(), m, ping{N: 41})
	require.NoError(t, err)
	assert.Equal(t, 42, res.N)
}

func TestSendPropagatesHandlerError(t *testing.T) {
	m := New(nil)
	boom := errors.New("boom")
	MustRegister(m, func(ctx context.Context, req ping) (pong, error) {
		return pong{}, boom
	})

	_, err := Send[pong](context.Background(), m, ping{})
	assert.ErrorIs(t, err, boom)
}

func TestSendWithoutHandler(t *testing.T) {
	m := newMediator(t)

	_, err := Send[Unit](context.Background(), m, missing{})
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestSendWithWrongResponseType(t *testing.T) {
	m := newMediator(t)

	_, err := Send[string](context.Background(), m, ping{})
	assert.ErrorIs(t, err, ErrHandlerType)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	m := newMediator(t)

	err := Register(m, func(ctx context.Context, req ping) (pong, error) { return pong{}, nil })
	assert.ErrorIs(t, err, ErrDuplicateHandler)

	assert.Panics(t, func() {
		MustRegister(m, func(ctx context.Context, req ping) (pong, error) { return pong{}, nil })
	})
}

func TestVerify(t *testing.T) {
	m := newMediator(t)

	assert.NoError(t, m.Verify(Expect[pong, ping]()))

	err := m.Verify(Expect[pong, ping](), Expect[Unit, missing](), Expect[int, ping]())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHandler)
	assert.ErrorIs(t, err, ErrHandlerType)
	assert.Contains(t, err.Error(), "test.missing")
}

func TestPublishRunsEverySubscriberInOrder(t *testing.T) {
	m := New(nil)
	var seen []string
	first := errors.New("first failed")

	Subscribe(m, func(ctx context.Context, n itemDeleted) error {
		seen = append(seen, "a")
		return first
	})
	Subscribe(m, func(ctx context.Context, n itemDeleted) error {
		seen = append(seen, "b")
		assert.Equal(t, uint(7), n.ID)
		return nil
	})

	err := m.Publish(context.Background(), itemDeleted{ID: 7})
	assert.ErrorIs(t, err, first)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, New(nil).Publish(context.Background(), itemDeleted{ID: 1}))
}

func TestKinds(t *testing.T) {
	assert.ElementsMatch(t, []Kind{"test.ping"}, newMediator(t).Kinds())
}
