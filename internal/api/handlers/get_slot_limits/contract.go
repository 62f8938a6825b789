package get_slot_limits

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/service/slotlimits/models"
)

type SlotLimitsService interface {
	ListLimits(ctx context.Context, actor domain.Actor) (*models.LimitListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
