package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/scene"
)

func TestReceiver(t *testing.T) {
	t.Run("empty channel does not block", func(t *testing.T) {
		_, rx := scene.NewBridge(1)
		msg, ok := rx.TryRecv()
		assert.False(t, ok)
		assert.Empty(t, msg)
	})

	t.Run("one message per receive", func(t *testing.T) {
		tx, rx := scene.NewBridge(4)
		tx <- "one"
		tx <- "two"

		msg, ok := rx.TryRecv()
		assert.True(t, ok)
		assert.Equal(t, "one", msg)

		msg, ok = rx.TryRecv()
		assert.True(t, ok)
		assert.Equal(t, "two", msg)

		_, ok = rx.TryRecv()
		assert.False(t, ok)
	})

	t.Run("closed channel reports empty", func(t *testing.T) {
		tx, rx := scene.NewBridge(0)
		close(tx)
		_, ok := rx.TryRecv()
		assert.False(t, ok)
	})
}

func TestChannelTextSystem(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	tx, rx := scene.NewBridge(8)
	ecs.InsertSingleton(storage, scene.TextUpdateReceiver{Receiver: rx})

	updatable := storage.Spawn(scene.Text{Body: "Waiting for messages..."}, scene.TextFont{Size: 50}, scene.UpdatableText{})
	static := storage.Spawn(scene.Text{Body: "static"}, scene.TextFont{Size: 50})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&scene.ChannelTextSystem{})

	body := func(id ecs.EntityId) string {
		return ecs.ReadComponent[scene.Text](storage, id).Body
	}

	scheduler.Once(0.016)
	assert.Equal(t, "Waiting for messages...", body(updatable))

	tx <- "Message count: 0"
	tx <- "Message count: 1"

	scheduler.Once(0.016)
	assert.Equal(t, "Message count: 0", body(updatable))

	scheduler.Once(0.016)
	assert.Equal(t, "Message count: 1", body(updatable))

	scheduler.Once(0.016)
	assert.Equal(t, "Message count: 1", body(updatable))
	assert.Equal(t, "static", body(static))
}
