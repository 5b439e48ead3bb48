package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// GuardOptions ограничения вызова модели
type GuardOptions struct {
	Timeout   time.Duration // 0 - без таймаута
	Serialize bool          // не более одного вызова одновременно
	RateLimit float64       // запросов в секунду, 0 - без ограничения
	Burst     int
}

// Guard оборачивает Scorer таймаутом, сериализацией и ограничением частоты вызовов
type Guard struct {
	scorer  Scorer
	timeout time.Duration
	sem     chan struct{}
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewGuard создает обертку над моделью
func NewGuard(scorer Scorer, opts GuardOptions, logger *logrus.Logger) *Guard {
	g := &Guard{
		scorer:  scorer,
		timeout: opts.Timeout,
		logger:  logger,
	}
	if opts.Serialize {
		g.sem = make(chan struct{}, 1)
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return g
}

type scoreResult struct {
	score float64
	err   error
}

// Score вызывает модель с учетом ограничений
func (g *Guard) Score(ctx context.Context, features []float64) (float64, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	if g.sem != nil {
		select {
		case g.sem <- struct{}{}:
		case <-ctx.Done():
			return 0, fmt.Errorf("waiting for model %s: %w", g.scorer.Name(), ctx.Err())
		}
	}

	input := make([]float64, len(features))
	copy(input, features)

	// Семафор освобождается только после фактического завершения вызова,
	// даже если вызывающий уже ушел по таймауту
	done := make(chan scoreResult, 1)
	go func() {
		if g.sem != nil {
			defer func() { <-g.sem }()
		}
		defer func() {
			if r := recover(); r != nil {
				g.logger.Errorf("Паника в модели %s: %v", g.scorer.Name(), r)
				done <- scoreResult{err: fmt.Errorf("model %s panicked: %v", g.scorer.Name(), r)}
			}
		}()
		score, err := g.scorer.Score(ctx, input)
		done <- scoreResult{score: score, err: err}
	}()

	select {
	case r := <-done:
		return r.score, r.err
	case <-ctx.Done():
		g.logger.Warnf("Модель %s не ответила вовремя: %v", g.scorer.Name(), ctx.Err())
		return 0, fmt.Errorf("model %s: %w", g.scorer.Name(), ctx.Err())
	}
}

// Name возвращает имя обернутой модели
func (g *Guard) Name() string {
	return g.scorer.Name()
}

// CheckHealth проверяет доступность обернутой модели, если она это поддерживает
func (g *Guard) CheckHealth(ctx context.Context) error {
	if hc, ok := g.scorer.(HealthChecker); ok {
		return hc.CheckHealth(ctx)
	}
	return nil
}
