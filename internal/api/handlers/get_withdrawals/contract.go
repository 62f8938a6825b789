package get_withdrawals

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/service/withdrawals/models"
)

type WithdrawalsService interface {
	List(ctx context.Context, providerID int64, actor domain.Actor) (*models.WithdrawalListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
