package mark_reviewed

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

type BookingsService interface {
	MarkReviewed(ctx context.Context, id int64, actor domain.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
