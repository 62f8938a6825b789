package get_provider_earnings

import (
	"context"

	getEarnings "github.com/kmatv/HS-BookingService/internal/usecase/get_earnings_summary"
)

type GetEarningsSummaryUseCase interface {
	Execute(ctx context.Context, req *getEarnings.Request) (*getEarnings.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
