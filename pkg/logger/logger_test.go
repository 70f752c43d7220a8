package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	t.Run("development with bad level falls back to info", func(t *testing.T) {
		require.NoError(t, Init("not-a-level", "development"))
		assert.True(t, Get().Desugar().Core().Enabled(zapcore.InfoLevel))
		assert.False(t, Get().Desugar().Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("production debug", func(t *testing.T) {
		require.NoError(t, Init("debug", "production"))
		assert.True(t, Get().Desugar().Core().Enabled(zapcore.DebugLevel))
	})
}

func TestWithKeepsType(t *testing.T) {
	child := Nop().With("component", "test")
	require.NotNil(t, child)
	child.Infow("ok", "k", "v")
}

func TestGetConcurrentFallback(t *testing.T) {
	mu.Lock()
	globalLogger = nil
	mu.Unlock()

	const workers = 16
	got := make([]*Logger, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Get()
		}(i)
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, l := range got[1:] {
		assert.Same(t, got[0], l)
	}
}
