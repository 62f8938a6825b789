package get_occupancy

import (
	"context"
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/service/slotlimits/models"
)

type SlotLimitsService interface {
	Occupancy(ctx context.Context, date time.Time, actor domain.Actor) (*models.OccupancyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
