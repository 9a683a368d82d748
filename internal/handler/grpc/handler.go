package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
)

// DocumentsServiceName is the health check name reported for the document
// and blob API. The empty name reports the server as a whole.
const DocumentsServiceName = "stockkeeper.Documents"

// Handler is the root gRPC transport handler. It serves the standard
// grpc.health.v1 service so that orchestrators can probe the server
// without HTTP.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

func NewHandler(logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		health: health.NewServer(),
		logger: logger,
	}
}

// Register attaches the handler's services to server and marks them as
// serving.
func (h *Handler) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.health)
	h.SetServing(true)
}

// SetServing flips the reported status of the whole server and of
// DocumentsServiceName.
func (h *Handler) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", st)
	h.health.SetServingStatus(DocumentsServiceName, st)
}

// Shutdown reports NOT_SERVING to all watchers ahead of a graceful stop.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

// UnaryLogging attaches a trace-scoped logger to the call context and writes
// one access log line per call.
func (h *Handler) UnaryLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", uuid.NewString())
	})
	ctx = l.WithContext(ctx)

	start := time.Now()
	resp, err := next(ctx, req)

	event := l.Info()
	if err != nil {
		event = l.Warn().Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Msg("grpc call served")

	return resp, err
}
