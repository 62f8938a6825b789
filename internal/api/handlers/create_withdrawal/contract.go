package create_withdrawal

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/service/withdrawals/models"
)

type WithdrawalsService interface {
	Create(ctx context.Context, req *models.CreateWithdrawalRequest) (*models.WithdrawalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
