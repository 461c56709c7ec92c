package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
)

var tracer = otel.Tracer("github.com/Freeeeeet/staff_scheduler/internal/service")

// fail passes domain errors through untouched and turns anything else into an
// InternalError, which is the only kind logged as a failure.
func fail(logger *zap.Logger, span trace.Span, op string, err error) error {
	if apperr.IsDomain(err) {
		logger.Debug("Request rejected",
			zap.String("operation", op),
			zap.String("kind", string(apperr.KindOf(err))),
			zap.String("reason", err.Error()),
		)
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	logger.Error("Operation failed", zap.String("operation", op), zap.Error(err))
	return apperr.Internal(op, err)
}
