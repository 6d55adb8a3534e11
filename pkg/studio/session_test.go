package studio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	factory := func() (*Studio, error) { return New(&mockGenerator{}) }

	t.Run("同じIDには同じStudioを返すのだ", func(t *testing.T) {
		ss, err := NewSessionStore(factory, 10, time.Hour)
		require.NoError(t, err)

		a, err := ss.Get("sid-1")
		require.NoError(t, err)
		a.SetPrompt("hello")

		again, err := ss.Get("sid-1")
		require.NoError(t, err)
		assert.Same(t, a, again)

		other, err := ss.Get("sid-2")
		require.NoError(t, err)
		assert.NotSame(t, a, other)
		assert.Empty(t, other.Snapshot().Prompt)
	})

	t.Run("上限を超えると古いセッションが破棄されるのだ", func(t *testing.T) {
		ss, err := NewSessionStore(factory, 2, time.Hour)
		require.NoError(t, err)

		first, _ := ss.Get("a")
		_, _ = ss.Get("b")
		_, _ = ss.Get("c")
		assert.Equal(t, 2, ss.Len())

		recreated, err := ss.Get("a")
		require.NoError(t, err)
		assert.NotSame(t, first, recreated)
	})

	t.Run("Removeで破棄できるのだ", func(t *testing.T) {
		ss, err := NewSessionStore(factory, 2, time.Hour)
		require.NoError(t, err)
		_, _ = ss.Get("a")
		ss.Remove("a")
		assert.Zero(t, ss.Len())
	})

	t.Run("factoryのエラーはラップされるのだ", func(t *testing.T) {
		boom := errors.New("boom")
		ss, err := NewSessionStore(func() (*Studio, error) { return nil, boom }, 2, time.Hour)
		require.NoError(t, err)

		_, err = ss.Get("a")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nilチェック: factoryがない場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewSessionStore(nil, 2, time.Hour)
		assert.Error(t, err)
	})
}
