package scorehandlers

import (
	"testing"
	"time"

	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinceParser(t *testing.T) {
	base := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	p := NewSinceParser(func() time.Time { return base })

	t.Run("unix seconds", func(t *testing.T) {
		got, err := p.Parse("1700000000")
		require.NoError(t, err)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), got)
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("relative phrase", func(t *testing.T) {
		got, err := p.Parse("yesterday")
		require.NoError(t, err)
		assert.Equal(t, 9, got.Day())
	})

	t.Run("relative phrase ignores case", func(t *testing.T) {
		got, err := p.Parse("  Yesterday ")
		require.NoError(t, err)
		assert.Equal(t, 9, got.Day())
	})

	t.Run("unix seconds at the range edges", func(t *testing.T) {
		got, err := p.Parse("253402300799")
		require.NoError(t, err)
		assert.Equal(t, 9999, got.Year())

		got, err = p.Parse("-62135596800")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Year())
	})

	rejected := []string{
		"zzz",
		"2024-01-01",
		"foo today",
		"today foo",
		"garbage now please",
		"253402300800",
		"-62135596801",
		"99999999999999",
		"999999999999999999999",
	}
	for _, raw := range rejected {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := p.Parse(raw)
			require.Error(t, err)
			assert.True(t, scoreservice.IsValidation(err))
		})
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := p.Parse("zzz")
		require.Error(t, err)
		assert.True(t, scoreservice.IsValidation(err))
	})
}
