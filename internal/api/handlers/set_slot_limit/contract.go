package set_slot_limit

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/service/slotlimits/models"
)

type SlotLimitsService interface {
	SetLimit(ctx context.Context, req *models.SetLimitRequest) (*models.LimitResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
