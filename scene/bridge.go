package scene

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/plus3/ecstour/ecs"
)

// Receiver is the consumer end of a Bridge. It is safe to poll from
// whichever goroutine runs the frame.
type Receiver struct {
	mu sync.Mutex
	ch <-chan string
}

// NewBridge creates a channel carrying text updates from a producer goroutine
// into the frame loop. The producer owns the send end and closes it when done.
func NewBridge(buffer int) (chan<- string, *Receiver) {
	ch := make(chan string, buffer)
	return ch, &Receiver{ch: ch}
}

// TryRecv performs one receive without waiting. It returns false when no
// message is queued or the producer has closed the channel.
func (r *Receiver) TryRecv() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case msg, ok := <-r.ch:
		return msg, ok
	default:
		return "", false
	}
}

// ChannelTextSystem rewrites every UpdatableText entity with the next message
// from the TextUpdateReceiver singleton. It receives at most one message per frame.
type ChannelTextSystem struct {
	Texts ecs.Query[struct {
		*UpdatableText
		*Text
	}]
	Receiver ecs.Singleton[TextUpdateReceiver]
	Logger   *zerolog.Logger
}

// Execute implements ecs.System.
func (s *ChannelTextSystem) Execute(frame *ecs.UpdateFrame) {
	rx := s.Receiver.Get()
	if rx == nil || rx.Receiver == nil {
		return
	}

	msg, ok := rx.TryRecv()
	if !ok {
		return
	}

	if s.Logger != nil {
		s.Logger.Debug().Str("message", msg).Msg("received")
	}
	for text := range s.Texts.Values() {
		text.Text.Body = msg
	}
}
