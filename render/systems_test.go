package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ecstour/ecs"
)

func TestSortByEntity(t *testing.T) {
	items := []drawItem{
		{id: ecs.NewEntityId(2, 0), body: "c"},
		{id: ecs.NewEntityId(1, 5), body: "b"},
		{id: ecs.NewEntityId(1, 0), body: "a"},
	}

	sortByEntity(items)

	var bodies []string
	for _, item := range items {
		bodies = append(bodies, item.body)
	}
	assert.Equal(t, []string{"a", "b", "c"}, bodies)
}

func TestSpriteLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0o600))

	for _, path := range []string{"missing.png", "broken.png"} {
		t.Run(path, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			s := &SpriteSystem{AssetsDir: dir, Logger: &logger}

			img, err := s.load(path)
			require.Error(t, err)
			assert.Nil(t, img)
			assert.Contains(t, err.Error(), path)

			// later frames reuse the failure without touching the disk again
			for range 3 {
				_, err = s.load(path)
				assert.ErrorIs(t, err, errSpriteUnavailable)
			}
			assert.Equal(t, 1, strings.Count(buf.String(), "sprite unavailable"))
		})
	}
}
