package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub := bus.Subscribe(TopicModuleLifecycle)
	defer sub.Cancel()

	bus.Publish(TopicModuleLifecycle, map[string]any{"module": "core/auth"})

	ev := receive(t, sub.C)
	assert.Equal(t, TopicModuleLifecycle, ev.Topic)
	assert.Equal(t, "core/auth", ev.Payload["module"])
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Time.IsZero())
}

func TestTopicsAreIsolated(t *testing.T) {
	bus := New()
	defer bus.Close()

	lifecycle := bus.Subscribe(TopicModuleLifecycle)
	defer lifecycle.Cancel()
	config := bus.Subscribe(TopicConfigReloaded)
	defer config.Cancel()

	bus.Publish(TopicConfigReloaded, nil)

	ev := receive(t, config.C)
	assert.Equal(t, TopicConfigReloaded, ev.Topic)

	select {
	case ev := <-lifecycle.C:
		t.Fatalf("lifecycle subscriber received %v", ev)
	default:
	}
}

func TestFanOut(t *testing.T) {
	bus := New()
	defer bus.Close()

	first := bus.Subscribe(TopicModuleLifecycle)
	defer first.Cancel()
	second := bus.Subscribe(TopicModuleLifecycle)
	defer second.Cancel()

	bus.Publish(TopicModuleLifecycle, map[string]any{"n": 1.0})

	assert.Equal(t, 1.0, receive(t, first.C).Payload["n"])
	assert.Equal(t, 1.0, receive(t, second.C).Payload["n"])
}

func TestCancelClosesChannel(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub := bus.Subscribe(TopicModuleLifecycle)
	sub.Cancel()

	_, open := <-sub.C
	assert.False(t, open)

	// Publishing after cancel must not panic.
	bus.Publish(TopicModuleLifecycle, nil)

	// A second cancel is a no-op.
	sub.Cancel()
}

func TestOverflowDropsOldest(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub := bus.Subscribe(TopicModuleLifecycle)
	defer sub.Cancel()

	total := defaultBufferSize + 5
	for i := 0; i < total; i++ {
		bus.Publish(TopicModuleLifecycle, map[string]any{"seq": i})
	}

	var got []int
	for {
		select {
		case ev := <-sub.C:
			got = append(got, ev.Payload["seq"].(int))
			continue
		default:
		}
		break
	}

	require.Len(t, got, defaultBufferSize)
	// The newest event is always retained; the dropped ones are the oldest.
	assert.Equal(t, total-1, got[len(got)-1])
	assert.Greater(t, got[0], 0)
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	bus := New()
	sub := bus.Subscribe(TopicModuleLifecycle)

	bus.Close()

	_, open := <-sub.C
	assert.False(t, open)

	// Post-close operations are safe no-ops.
	bus.Publish(TopicModuleLifecycle, nil)
	bus.Close()

	late := bus.Subscribe(TopicModuleLifecycle)
	_, open = <-late.C
	assert.False(t, open)
	late.Cancel()
}
