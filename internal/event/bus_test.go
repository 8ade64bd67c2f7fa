package event

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietBus() *Bus {
	return NewBus(log.New(io.Discard))
}

func TestPublishRegistrationOrder(t *testing.T) {
	bus := quietBus()
	var order []int
	for i := 0; i < 3; i++ {
		bus.Subscribe(KindTargetHit, func(Payload) error {
			order = append(order, i)
			return nil
		})
	}

	bus.Publish(TargetHit{Combo: 1})
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestFailingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := quietBus()
	var delivered []string

	bus.Subscribe(KindPlayerHit, func(Payload) error {
		delivered = append(delivered, "first")
		panic("boom")
	})
	bus.Subscribe(KindPlayerHit, func(Payload) error {
		delivered = append(delivered, "second")
		return errors.New("handler error")
	})
	bus.Subscribe(KindPlayerHit, func(Payload) error {
		delivered = append(delivered, "third")
		return nil
	})

	require.NotPanics(t, func() { bus.Publish(PlayerHit{Lives: 2}) })
	assert.Equal(t, []string{"first", "second", "third"}, delivered)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := quietBus()
	assert.NotPanics(t, func() { bus.Publish(ObstacleSpawned{}) })
}

func TestUnsubscribe(t *testing.T) {
	bus := quietBus()
	calls := 0
	sub := bus.Subscribe(KindComboReset, func(Payload) error {
		calls++
		return nil
	})

	bus.Publish(ComboReset{})
	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)
	bus.Publish(ComboReset{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.HandlerCount(KindComboReset))
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := quietBus()
	var second Subscription
	calls := 0
	bus.Subscribe(KindNearMiss, func(Payload) error {
		bus.Unsubscribe(second)
		return nil
	})
	second = bus.Subscribe(KindNearMiss, func(Payload) error {
		calls++
		return nil
	})

	bus.Publish(NearMiss{})
	assert.Equal(t, 1, calls, "in-flight publish keeps its handler list")
	bus.Publish(NearMiss{})
	assert.Equal(t, 1, calls)
}

func TestOnIsTyped(t *testing.T) {
	bus := quietBus()
	var got GameOver
	On(bus, func(p GameOver) { got = p })

	bus.Publish(GameOver{Score: 12, BestScore: 40})
	assert.Equal(t, 12, got.Score)
	assert.Equal(t, 40, got.BestScore)
	assert.Equal(t, 1, bus.HandlerCount(KindGameOver))
}

func TestRemoveAll(t *testing.T) {
	bus := quietBus()
	calls := 0
	On(bus, func(ScoreChanged) { calls++ })
	On(bus, func(LivesChanged) { calls++ })

	bus.RemoveAll()
	bus.Publish(ScoreChanged{})
	bus.Publish(LivesChanged{})
	assert.Zero(t, calls)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "target-hit", KindTargetHit.String())
	assert.Equal(t, "unknown", Kind(-1).String())
	assert.Equal(t, "unknown", kindCount.String())
}
