package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
)

type HealthOutput struct {
	Status    string
	Timestamp time.Time
}

// Health pings the store. An unreachable store is reported as 503.
func (s *Usecase) Health(ctx context.Context) (*HealthOutput, error) {
	ctx, span := s.startSpan(ctx, "Health")
	defer span.End()

	if err := s.repoStore.Ping(ctx); err != nil {
		slog.DebugContext(ctx, "store ping failed", "error", err)
		return nil, goerror.NewBusiness("Store unavailable", http.StatusServiceUnavailable)
	}

	return &HealthOutput{Status: "OK", Timestamp: s.clock.Now().UTC()}, nil
}
