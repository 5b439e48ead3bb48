package scoring_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"road-risk-go/internal/scoring"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestGuard_PassesThrough(t *testing.T) {
	var got []float64
	inner := scoring.Func(func(_ context.Context, features []float64) (float64, error) {
		got = features
		return 0.42, nil
	})
	g := scoring.NewGuard(inner, scoring.GuardOptions{}, quietLogger())

	score, err := g.Score(context.Background(), exampleVector)
	require.NoError(t, err)
	assert.Equal(t, 0.42, score)
	assert.Equal(t, exampleVector, got)
	assert.Equal(t, "func", g.Name())
	assert.NoError(t, g.CheckHealth(context.Background()))
}

func TestGuard_PropagatesError(t *testing.T) {
	inner := scoring.Func(func(context.Context, []float64) (float64, error) {
		return 0, errors.New("model exploded")
	})
	g := scoring.NewGuard(inner, scoring.GuardOptions{}, quietLogger())

	_, err := g.Score(context.Background(), exampleVector)
	assert.EqualError(t, err, "model exploded")
}

func TestGuard_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	inner := scoring.Func(func(context.Context, []float64) (float64, error) {
		<-release
		return 1, nil
	})
	g := scoring.NewGuard(inner, scoring.GuardOptions{Timeout: 20 * time.Millisecond}, quietLogger())

	start := time.Now()
	_, err := g.Score(context.Background(), exampleVector)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}

func TestGuard_Serialize(t *testing.T) {
	var active, maxActive int32
	inner := scoring.Func(func(context.Context, []float64) (float64, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			m := atomic.LoadInt32(&maxActive)
			if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return 0.5, nil
	})
	g := scoring.NewGuard(inner, scoring.GuardOptions{Serialize: true}, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Score(context.Background(), exampleVector)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
}

func TestGuard_RateLimitCanceled(t *testing.T) {
	inner := scoring.Func(func(context.Context, []float64) (float64, error) { return 0.1, nil })
	g := scoring.NewGuard(inner, scoring.GuardOptions{RateLimit: 0.001, Burst: 1}, quietLogger())

	_, err := g.Score(context.Background(), exampleVector)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = g.Score(ctx, exampleVector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestGuard_InputIsCopied(t *testing.T) {
	inner := scoring.Func(func(_ context.Context, features []float64) (float64, error) {
		features[0] = 99
		return 0, nil
	})
	g := scoring.NewGuard(inner, scoring.GuardOptions{}, quietLogger())

	input := append([]float64(nil), exampleVector...)
	_, err := g.Score(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, exampleVector, input)
}

type healthyScorer struct {
	scoring.Func
	err error
}

func (h healthyScorer) CheckHealth(context.Context) error { return h.err }

func TestGuard_CheckHealthDelegates(t *testing.T) {
	inner := healthyScorer{
		Func: func(context.Context, []float64) (float64, error) { return 0, nil },
		err:  errors.New("down"),
	}
	g := scoring.NewGuard(inner, scoring.GuardOptions{}, quietLogger())
	assert.EqualError(t, g.CheckHealth(context.Background()), "down")
}

func TestGuard_PanicBecomesError(t *testing.T) {
	inner := scoring.Func(func(_ context.Context, _ []float64) (float64, error) {
		var m map[string]int
		m["boom"] = 1
		return 0, nil
	})
	g := scoring.NewGuard(inner, scoring.GuardOptions{Serialize: true}, quietLogger())

	_, err := g.Score(context.Background(), exampleVector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	// семафор освобожден, следующий вызов не блокируется
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = g.Score(ctx, exampleVector)
	assert.Contains(t, err.Error(), "panicked")
}
