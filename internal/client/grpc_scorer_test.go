package client_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"road-risk-go/internal/client"
	"road-risk-go/internal/scoring"
)

func startScoringServer(t *testing.T, scorer scoring.Scorer) *client.GRPCScorer {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	client.RegisterScoringService(srv, scorer)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := client.NewGRPCScorer("passthrough:///bufnet", quietLogger(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCScorer_RoundTrip(t *testing.T) {
	var got []float64
	c := startScoringServer(t, scoring.Func(func(_ context.Context, features []float64) (float64, error) {
		got = features
		return 0.72, nil
	}))

	score, err := c.Score(context.Background(), exampleVector)
	require.NoError(t, err)
	assert.Equal(t, 0.72, score)
	assert.Equal(t, exampleVector, got)
	assert.Equal(t, "grpc:passthrough:///bufnet", c.Name())
}

func TestGRPCScorer_ServerError(t *testing.T) {
	c := startScoringServer(t, scoring.Func(func(context.Context, []float64) (float64, error) {
		return 0, errors.New("model not fitted")
	}))

	_, err := c.Score(context.Background(), exampleVector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not fitted")
}

func TestGRPCScorer_WrongLengthIsInvalidArgument(t *testing.T) {
	called := false
	c := startScoringServer(t, scoring.Func(func(context.Context, []float64) (float64, error) {
		called = true
		return 0.5, nil
	}))

	_, err := c.Score(context.Background(), exampleVector[:5])
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.False(t, called)
}

func TestGRPCScorer_CheckHealth(t *testing.T) {
	c := startScoringServer(t, scoring.Func(func(context.Context, []float64) (float64, error) {
		return 0, nil
	}))
	assert.NoError(t, c.CheckHealth(context.Background()))
}

func TestGRPCScorer_WithArtifactModel(t *testing.T) {
	model, err := scoring.ParseArtifact([]byte(`{"type": "linear", "intercept": 0.1,
		"coefficients": [0,0,0,0,0,0,0,0,0,0,1,0]}`))
	require.NoError(t, err)
	c := startScoringServer(t, model)

	score, err := c.Score(context.Background(), exampleVector)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, score, 1e-12)
}
