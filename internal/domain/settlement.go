package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/kmatv/HS-BookingService/pkg/types"
)

// ErrSettlementInconsistency возвращается, если обе стороны взаиморасчета
// оказались ненулевыми одновременно. Это дефект данных или расчета:
// ошибка логируется громко и никогда не "склеивается" молча.
var ErrSettlementInconsistency = errors.New("settlement: providerOwesAdmin and adminOwesProvider are both non-zero")

// ErrBookingNotSettleable возвращается при попытке включить в расчет
// незавершенное бронирование
var ErrBookingNotSettleable = errors.New("settlement: booking is not completed")

// FeeType вид комиссии платформы
type FeeType string

const (
	FeeFixed      FeeType = "fixed"
	FeePercentage FeeType = "percentage"
)

// ProviderFeeConfig is the explicit commission configuration passed into
// every settlement call — the engine has no ambient configuration.
type ProviderFeeConfig struct {
	Type    FeeType
	Percent float64     // for percentage type
	Flat    types.Money // for fixed type
}

// Commission computes the platform commission for one booking total.
// A fixed fee is capped at the booking total so net earnings never go negative.
func (c ProviderFeeConfig) Commission(total types.Money) types.Money {
	switch c.Type {
	case FeePercentage:
		return total.PercentOf(c.Percent)
	case FeeFixed:
		if c.Flat > total {
			return total
		}
		return c.Flat
	default:
		return 0
	}
}

// WithdrawalStatus статус заявки на вывод средств
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
)

// ReservesBalance returns true if the request holds or consumed balance.
// Only a rejection releases the reservation back.
func (s WithdrawalStatus) ReservesBalance() bool {
	return s != WithdrawalRejected
}

// WithdrawalRequest заявка исполнителя на вывод средств
type WithdrawalRequest struct {
	ID         int64
	ProviderID int64
	Amount     types.Money
	Status     WithdrawalStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EarningsSummary is the read-side aggregation of a provider's completed
// bookings and withdrawal history. Exactly one of ProviderOwesAdmin /
// AdminOwesProvider is non-zero (or both are zero when balanced).
type EarningsSummary struct {
	ProviderID        int64
	CompletedBookings int

	TotalRevenue     types.Money // Σ totalAmount of completed bookings
	TotalCommission  types.Money
	TotalNetEarnings types.Money

	CashCollectedByProvider types.Money // gross of cash bookings, held in the field
	NetFromOnlinePayments   types.Money // provider's net share of online bookings

	WithdrawnOrReserved types.Money
	WithdrawableBalance types.Money // clamped at zero

	ProviderOwesAdmin types.Money
	AdminOwesProvider types.Money
}

// SummarizeEarnings aggregates completed bookings and withdrawal requests
// into the provider's earnings summary.
//
// Cash bookings contribute their full total to cash-held (the provider
// collected the gross in the field and owes the platform its commission);
// online bookings contribute net earnings (the platform holds the gross and
// owes the provider the net share). The settlement direction is a single
// comparison of the two buckets, so mutual exclusivity holds by construction;
// the defensive check stays anyway because the invariant must never fail
// silently if the arithmetic is ever touched.
func SummarizeEarnings(
	providerID int64,
	completed []*Booking,
	withdrawals []*WithdrawalRequest,
	fee ProviderFeeConfig,
) (*EarningsSummary, error) {
	s := &EarningsSummary{ProviderID: providerID}

	for _, b := range completed {
		if !b.IsSettleable() {
			return nil, fmt.Errorf("%w: booking=%d status=%s", ErrBookingNotSettleable, b.ID, b.Status)
		}

		commission := fee.Commission(b.TotalAmount)
		net := b.TotalAmount - commission

		s.CompletedBookings++
		s.TotalRevenue += b.TotalAmount
		s.TotalCommission += commission
		s.TotalNetEarnings += net

		switch b.PaymentMethod {
		case PaymentCash:
			s.CashCollectedByProvider += b.TotalAmount
		default:
			s.NetFromOnlinePayments += net
		}
	}

	for _, w := range withdrawals {
		if w.Status.ReservesBalance() {
			s.WithdrawnOrReserved += w.Amount
		}
	}

	s.WithdrawableBalance = (s.NetFromOnlinePayments - s.WithdrawnOrReserved).ClampZero()

	switch {
	case s.CashCollectedByProvider > s.NetFromOnlinePayments:
		s.ProviderOwesAdmin = s.CashCollectedByProvider - s.NetFromOnlinePayments
	case s.NetFromOnlinePayments > s.CashCollectedByProvider:
		s.AdminOwesProvider = s.NetFromOnlinePayments - s.CashCollectedByProvider
	}

	if s.ProviderOwesAdmin > 0 && s.AdminOwesProvider > 0 {
		return nil, fmt.Errorf("%w: provider=%d owes=%s owed=%s",
			ErrSettlementInconsistency, providerID, s.ProviderOwesAdmin, s.AdminOwesProvider)
	}

	return s, nil
}
