package client

import (
	"context"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"road-risk-go/internal/encoder"
	"road-risk-go/internal/scoring"
)

// scoringServer отдает загруженную модель другим сервисам по gRPC
type scoringServer struct {
	scorer scoring.Scorer
}

var scoringServiceDesc = grpc.ServiceDesc{
	ServiceName: ScoringServiceName,
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Score", Handler: scoreHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roadrisk/v1/scoring.proto",
}

// RegisterScoringService регистрирует сервис модели и grpc.health.v1 на сервере
func RegisterScoringService(s *grpc.Server, scorer scoring.Scorer) {
	s.RegisterService(&scoringServiceDesc, &scoringServer{scorer: scorer})

	hs := health.NewServer()
	hs.SetServingStatus(ScoringServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
}

func scoreHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(*scoringServer)
	if interceptor == nil {
		return s.score(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: scoreMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.score(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

func (s *scoringServer) score(ctx context.Context, in *structpb.ListValue) (*structpb.Value, error) {
	if len(in.GetValues()) != encoder.FeatureCount {
		return nil, status.Errorf(codes.InvalidArgument, "expected %d features, got %d", encoder.FeatureCount, len(in.GetValues()))
	}
	features := make([]float64, len(in.GetValues()))
	for i, v := range in.GetValues() {
		num, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "feature %d is not a number", i)
		}
		features[i] = num.NumberValue
	}

	score, err := s.scorer.Score(ctx, features)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "scoring failed: %v", err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, status.Error(codes.Internal, "model produced non-finite score")
	}
	return structpb.NewNumberValue(score), nil
}
