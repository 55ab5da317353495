package eventloop

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chat-client/internal/infrastructure/logger"
)

func TestLoop_StartStop(t *testing.T) {
	loop := New(&mockLogger{}, 0)
	ctx := context.Background()

	require.NoError(t, loop.Start(ctx))
	assert.True(t, loop.IsRunning())
	assert.ErrorIs(t, loop.Start(ctx), ErrAlreadyRunning)

	require.NoError(t, loop.Stop(ctx))
	assert.False(t, loop.IsRunning())
	require.NoError(t, loop.Stop(ctx))

	assert.ErrorIs(t, loop.Post(func() {}), ErrNotRunning)
}

func TestLoop_RunsCallbacksInOrder(t *testing.T) {
	loop := New(&mockLogger{}, 16)
	ctx := context.Background()
	require.NoError(t, loop.Start(ctx))
	defer loop.Stop(ctx)

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		n := i
		require.NoError(t, loop.Post(func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoop_SurvivesPanickingCallback(t *testing.T) {
	loop := New(&mockLogger{}, 4)
	ctx := context.Background()
	require.NoError(t, loop.Start(ctx))
	defer loop.Stop(ctx)

	ran := make(chan struct{})
	require.NoError(t, loop.Post(func() { panic("boom") }))
	require.NoError(t, loop.Post(func() { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("loop did not run the callback after a panic")
	}
}

// Mock implementations for testing

type mockLogger struct{}

func (m *mockLogger) Debug(msg string)                              {}
func (m *mockLogger) Debugf(format string, args ...any)             {}
func (m *mockLogger) Info(msg string)                               {}
func (m *mockLogger) Infof(format string, args ...any)              {}
func (m *mockLogger) Warn(msg string)                               {}
func (m *mockLogger) Warnf(format string, args ...any)              {}
func (m *mockLogger) Error(msg string)                              {}
func (m *mockLogger) Errorf(format string, args ...any)             {}
func (m *mockLogger) Fatal(msg string)                              {}
func (m *mockLogger) Fatalf(format string, args ...any)             {}
func (m *mockLogger) WithField(key string, value any) logger.Logger { return m }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }
func (m *mockLogger) WithContext(ctx context.Context) logger.Logger { return m }
func (m *mockLogger) SetLevel(level logger.Level)                   {}
func (m *mockLogger) SetOutput(output io.Writer)                    {}
