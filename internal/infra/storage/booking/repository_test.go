package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

func TestCancelQuery_UpdateAndClaimDeleteAreOneStatement(t *testing.T) {
	reason := "customer changed plans"

	query, args, err := cancelQuery(7, domain.StatusConfirmed, &reason)
	require.NoError(t, err)

	// Отмена и возврат мест атомарны: падение процесса между обновлением
	// статуса и удалением claim-строк не должно оставлять занятые слоты
	// у отмененного бронирования
	assert.Contains(t, query, "WITH cancelled AS (UPDATE bookings")
	assert.Contains(t, query, "DELETE FROM booking_slot_claims")
	assert.NotContains(t, query, ";")

	assert.Equal(t, []interface{}{
		string(domain.StatusCancelled),
		&reason,
		int64(7),
		string(domain.StatusConfirmed),
	}, args)
}

func TestCancelQuery_ConditionalOnCurrentStatus(t *testing.T) {
	query, _, err := cancelQuery(1, domain.StatusInProgress, nil)
	require.NoError(t, err)

	// Условие по текущему статусу: из двух конкурентных переходов
	// побеждает ровно один
	assert.Contains(t, query, "WHERE id = $3 AND status = $4")
	assert.Equal(t, 4, strings.Count(query, "$"))
}
