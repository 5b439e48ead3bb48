package client

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// ScoringServiceName имя gRPC сервиса модели
const ScoringServiceName = "roadrisk.v1.ScoringService"

const scoreMethod = "/" + ScoringServiceName + "/Score"

// GRPCScorer клиент модели, доступной по gRPC.
// Запрос - google.protobuf.ListValue с признаками, ответ - google.protobuf.Value с оценкой.
type GRPCScorer struct {
	target string
	conn   *grpc.ClientConn
	health healthpb.HealthClient
	logger *logrus.Logger
}

// NewGRPCScorer создает клиент; без опций используется незащищенное соединение
func NewGRPCScorer(target string, logger *logrus.Logger, opts ...grpc.DialOption) (*GRPCScorer, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", target, err)
	}

	return &GRPCScorer{
		target: target,
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
		logger: logger,
	}, nil
}

// Score вызывает модель по gRPC
func (s *GRPCScorer) Score(ctx context.Context, features []float64) (float64, error) {
	req := &structpb.ListValue{Values: make([]*structpb.Value, len(features))}
	for i, f := range features {
		req.Values[i] = structpb.NewNumberValue(f)
	}

	resp := &structpb.Value{}
	s.logger.Debugf("Вызов %s на %s", scoreMethod, s.target)
	if err := s.conn.Invoke(ctx, scoreMethod, req, resp); err != nil {
		return 0, fmt.Errorf("gRPC score call failed: %w", err)
	}

	num, ok := resp.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("gRPC score response is not a number")
	}
	if math.IsNaN(num.NumberValue) || math.IsInf(num.NumberValue, 0) {
		return 0, fmt.Errorf("gRPC model returned non-finite score")
	}
	return num.NumberValue, nil
}

// Name возвращает имя бэкенда
func (s *GRPCScorer) Name() string {
	return "grpc:" + s.target
}

// CheckHealth проверяет статус сервиса через grpc.health.v1
func (s *GRPCScorer) CheckHealth(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ScoringServiceName})
	if err != nil {
		return fmt.Errorf("gRPC health check failed: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("gRPC model status %s", resp.GetStatus())
	}
	return nil
}

// Close закрывает соединение
func (s *GRPCScorer) Close() error {
	return s.conn.Close()
}
