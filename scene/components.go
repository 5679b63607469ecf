package scene

import (
	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/script"
)

// DefaultFontSize is the font size of text spawned by the driver.
const DefaultFontSize = 50.0

// TextId tags a text entity with the script slot it was shown under.
// Only entities spawned for the script carry it.
type TextId struct {
	Slot uint
}

// Text is the string a text entity displays.
type Text struct {
	Body string
}

// TextFont holds the font attributes handed to the renderer.
type TextFont struct {
	Size float64
}

// Camera2D marks the entity the renderer draws the 2D scene through.
// Nothing is drawn until one exists.
type Camera2D struct{}

// Sprite is an image drawn at the centre of the screen. Path is relative to
// the assets directory.
type Sprite struct {
	Path string
}

// UpdatableText marks text entities rewritten by the ChannelTextSystem.
type UpdatableText struct{}

// ScriptInterpreter is the singleton holding the interpreter a ScriptSystem steps.
type ScriptInterpreter struct {
	*script.Interpreter
}

// ClockTimer is the singleton pacing a ScriptSystem.
type ClockTimer struct {
	ecs.Timer
}

// NewClockTimer returns a repeating clock with the given period.
func NewClockTimer(period float64) ClockTimer {
	return ClockTimer{Timer: ecs.TimerFromSeconds(period, ecs.TimerRepeating)}
}

// TextUpdateReceiver is the singleton holding the consumer end of a Bridge.
type TextUpdateReceiver struct {
	*Receiver
}

// NewTextBundle returns the components of a scripted text entity.
func NewTextBundle(slot uint, body string) []any {
	return []any{
		TextId{Slot: slot},
		Text{Body: body},
		TextFont{Size: DefaultFontSize},
	}
}

// RegisterComponents registers every scene component type with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[TextId](registry)
	ecs.RegisterComponent[Text](registry)
	ecs.RegisterComponent[TextFont](registry)
	ecs.RegisterComponent[Camera2D](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[UpdatableText](registry)
}
