package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/pkg/types"
)

func completedBooking(total types.Money, method PaymentMethod) *Booking {
	return &Booking{
		Status:        StatusCompleted,
		TotalAmount:   total,
		PaymentMethod: method,
	}
}

func TestSummarizeEarnings_MixedPayments(t *testing.T) {
	fee := ProviderFeeConfig{Type: FeePercentage, Percent: 10.0}

	// Наличные 1000.00 + онлайн 1000.00, комиссия 10%
	s, err := SummarizeEarnings(7, []*Booking{
		completedBooking(100000, PaymentCash),
		completedBooking(100000, PaymentOnline),
	}, nil, fee)
	require.NoError(t, err)

	assert.Equal(t, 2, s.CompletedBookings)
	assert.Equal(t, types.Money(200000), s.TotalRevenue)
	assert.Equal(t, types.Money(20000), s.TotalCommission)
	assert.Equal(t, types.Money(180000), s.TotalNetEarnings)

	// Наличные учитываются брутто (исполнитель уже держит их на руках),
	// онлайн — нетто (платформа держит брутто и должна исполнителю долю)
	assert.Equal(t, types.Money(100000), s.CashCollectedByProvider)
	assert.Equal(t, types.Money(90000), s.NetFromOnlinePayments)

	// 1000 наличными против 900 нетто онлайн: исполнитель должен платформе
	assert.Equal(t, types.Money(10000), s.ProviderOwesAdmin)
	assert.Equal(t, types.Money(0), s.AdminOwesProvider)
}

func TestSummarizeEarnings_OnlineOnly(t *testing.T) {
	fee := ProviderFeeConfig{Type: FeePercentage, Percent: 10.0}

	s, err := SummarizeEarnings(7, []*Booking{
		completedBooking(100000, PaymentOnline),
	}, nil, fee)
	require.NoError(t, err)

	assert.Equal(t, types.Money(90000), s.AdminOwesProvider)
	assert.Equal(t, types.Money(0), s.ProviderOwesAdmin)
	assert.Equal(t, types.Money(90000), s.WithdrawableBalance)
}

func TestSummarizeEarnings_WithdrawableClampedAtZero(t *testing.T) {
	fee := ProviderFeeConfig{Type: FeePercentage, Percent: 10.0}

	s, err := SummarizeEarnings(7,
		[]*Booking{completedBooking(100000, PaymentOnline)},
		[]*WithdrawalRequest{
			{Amount: 50000, Status: WithdrawalCompleted},
			{Amount: 50000, Status: WithdrawalPending},
		},
		fee,
	)
	require.NoError(t, err)

	// Резерв 1000 против 900 доступных: баланс прижат к нулю
	assert.Equal(t, types.Money(100000), s.WithdrawnOrReserved)
	assert.Equal(t, types.Money(0), s.WithdrawableBalance)
}

func TestSummarizeEarnings_RejectedWithdrawalReleasesBalance(t *testing.T) {
	fee := ProviderFeeConfig{Type: FeePercentage, Percent: 10.0}

	s, err := SummarizeEarnings(7,
		[]*Booking{completedBooking(100000, PaymentOnline)},
		[]*WithdrawalRequest{
			{Amount: 50000, Status: WithdrawalRejected},
		},
		fee,
	)
	require.NoError(t, err)

	assert.Equal(t, types.Money(0), s.WithdrawnOrReserved)
	assert.Equal(t, types.Money(90000), s.WithdrawableBalance)
}

func TestSummarizeEarnings_FixedFeeCappedAtTotal(t *testing.T) {
	fee := ProviderFeeConfig{Type: FeeFixed, Flat: 5000}

	s, err := SummarizeEarnings(7, []*Booking{
		completedBooking(3000, PaymentOnline),
	}, nil, fee)
	require.NoError(t, err)

	// Фиксированная комиссия не превышает сумму бронирования
	assert.Equal(t, types.Money(3000), s.TotalCommission)
	assert.Equal(t, types.Money(0), s.TotalNetEarnings)
}

func TestSummarizeEarnings_NotCompletedBookingRejected(t *testing.T) {
	fee := ProviderFeeConfig{Type: FeePercentage, Percent: 10.0}

	b := completedBooking(10000, PaymentCash)
	b.Status = StatusInProgress

	_, err := SummarizeEarnings(7, []*Booking{b}, nil, fee)
	assert.ErrorIs(t, err, ErrBookingNotSettleable)
}

func TestSummarizeEarnings_Empty(t *testing.T) {
	s, err := SummarizeEarnings(7, nil, nil, ProviderFeeConfig{Type: FeePercentage, Percent: 10})
	require.NoError(t, err)

	assert.Equal(t, 0, s.CompletedBookings)
	assert.Equal(t, types.Money(0), s.ProviderOwesAdmin)
	assert.Equal(t, types.Money(0), s.AdminOwesProvider)
}

func TestProviderFeeConfig_Commission(t *testing.T) {
	assert.Equal(t, types.Money(1000), ProviderFeeConfig{Type: FeePercentage, Percent: 10}.Commission(10000))
	assert.Equal(t, types.Money(500), ProviderFeeConfig{Type: FeeFixed, Flat: 500}.Commission(10000))
	assert.Equal(t, types.Money(300), ProviderFeeConfig{Type: FeeFixed, Flat: 500}.Commission(300))
	assert.Equal(t, types.Money(0), ProviderFeeConfig{}.Commission(10000))
}
