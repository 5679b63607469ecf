// Package render draws ecstour scenes with ebiten.
package render

import (
	"bytes"
	"image/color"
	_ "image/jpeg" // sprite decoders
	_ "image/png"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/scene"
)

var (
	background = color.RGBA{R: 40, G: 40, B: 46, A: 255}
	foreground = color.White
)

const textMargin = 16

// Screen is the singleton holding the image being drawn this frame.
type Screen struct {
	Image *ebiten.Image
}

// NewFaceSource loads the bundled font used for scene text.
func NewFaceSource() (*text.GoTextFaceSource, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(fonts.MPlus1pRegular_ttf))
	if err != nil {
		return nil, eris.Wrap(err, "failed to load font")
	}
	return src, nil
}

// ClearSystem fills the screen with the background colour.
type ClearSystem struct {
	Screen ecs.Singleton[Screen]
}

func (s *ClearSystem) Execute(frame *ecs.UpdateFrame) {
	if screen := s.Screen.Get(); screen != nil && screen.Image != nil {
		screen.Image.Fill(background)
	}
}

// TextSystem draws every Text entity top to bottom in entity order. A freed
// slot may be reused, so a newer line can land above an older one. Nothing is
// drawn until a Camera2D exists.
type TextSystem struct {
	Cameras ecs.Query[struct{ *scene.Camera2D }]
	Texts   ecs.Query[struct {
		ecs.EntityId
		*scene.Text
		Font *scene.TextFont `ecs:"optional"`
	}]
	Screen ecs.Singleton[Screen]

	Source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
}

func (s *TextSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil || s.Source == nil || s.Cameras.Len() == 0 {
		return
	}

	items := make([]drawItem, 0, s.Texts.Len())
	for id, item := range s.Texts.Iter() {
		size := scene.DefaultFontSize
		if item.Font != nil && item.Font.Size > 0 {
			size = item.Font.Size
		}
		items = append(items, drawItem{id: id, body: item.Body, size: size})
	}
	sortByEntity(items)

	y := float64(textMargin)
	for _, item := range items {
		face := s.face(item.size)

		op := &text.DrawOptions{}
		op.GeoM.Translate(textMargin, y)
		op.ColorScale.ScaleWithColor(foreground)
		op.LineSpacing = item.size * 1.2
		text.Draw(screen.Image, item.body, face, op)

		_, h := text.Measure(item.body, face, op.LineSpacing)
		y += h
	}
}

func (s *TextSystem) face(size float64) *text.GoTextFace {
	if s.faces == nil {
		s.faces = make(map[float64]*text.GoTextFace)
	}
	face, ok := s.faces[size]
	if !ok {
		face = &text.GoTextFace{Source: s.Source, Size: size}
		s.faces[size] = face
	}
	return face
}

// SpriteSystem draws every Sprite entity centred on the screen, the origin of
// the 2D camera. Images are loaded from AssetsDir on first use.
type SpriteSystem struct {
	Cameras ecs.Query[struct{ *scene.Camera2D }]
	Sprites ecs.Query[struct{ *scene.Sprite }]
	Screen  ecs.Singleton[Screen]

	AssetsDir string
	Logger    *zerolog.Logger

	images map[string]*ebiten.Image
	failed map[string]struct{}
}

func (s *SpriteSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil || s.Cameras.Len() == 0 {
		return
	}

	bounds := screen.Image.Bounds()
	for item := range s.Sprites.Values() {
		img, err := s.load(item.Path)
		if err != nil {
			continue
		}

		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(bounds.Dx()-w)/2, float64(bounds.Dy()-h)/2)
		screen.Image.DrawImage(img, op)
	}
}

func (s *SpriteSystem) load(path string) (*ebiten.Image, error) {
	if img, ok := s.images[path]; ok {
		return img, nil
	}
	if _, ok := s.failed[path]; ok {
		return nil, errSpriteUnavailable
	}

	full := filepath.Join(s.AssetsDir, path)
	img, _, err := ebitenutil.NewImageFromFile(full)
	if err != nil {
		if s.failed == nil {
			s.failed = make(map[string]struct{})
		}
		s.failed[path] = struct{}{}
		err = eris.Wrapf(err, "failed to load sprite %s", full)
		if s.Logger != nil {
			s.Logger.Error().Err(err).Msg("sprite unavailable")
		}
		return nil, err
	}

	if s.images == nil {
		s.images = make(map[string]*ebiten.Image)
	}
	s.images[path] = img
	return img, nil
}

var errSpriteUnavailable = eris.New("sprite unavailable")
