package transition_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/internal/domain"
	bookingStorage "github.com/kmatv/HS-BookingService/internal/infra/storage/booking"
	promoStorage "github.com/kmatv/HS-BookingService/internal/infra/storage/promocode"
	"github.com/kmatv/HS-BookingService/internal/integrations/paymentgateway"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// memBookingRepo воспроизводит семантику условного обновления хранилища:
// переход применяется только из ожидаемого статуса, иначе ErrStatusConflict.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
}

func newMemBookingRepo(bookings ...*domain.Booking) *memBookingRepo {
	r := &memBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		stored := *b
		r.bookings[b.ID] = &stored
	}
	return r
}

func (r *memBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingStorage.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) conditionalUpdate(id int64, from domain.BookingStatus, apply func(b *domain.Booking)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingStorage.ErrStatusConflict
	}
	apply(b)
	b.UpdatedAt = time.Now()
	return nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	return r.conditionalUpdate(id, from, func(b *domain.Booking) { b.Status = to })
}

func (r *memBookingRepo) Confirm(ctx context.Context, id int64, from domain.BookingStatus, gatewayPaymentID *string) error {
	return r.conditionalUpdate(id, from, func(b *domain.Booking) {
		b.Status = domain.StatusConfirmed
		b.GatewayPaymentID = gatewayPaymentID
	})
}

func (r *memBookingRepo) AssignProvider(ctx context.Context, id int64, providerID int64, from domain.BookingStatus) error {
	return r.conditionalUpdate(id, from, func(b *domain.Booking) {
		b.Status = domain.StatusAssigned
		b.ProviderID = &providerID
	})
}

func (r *memBookingRepo) Complete(ctx context.Context, id int64, from domain.BookingStatus) error {
	return r.conditionalUpdate(id, from, func(b *domain.Booking) { b.Status = domain.StatusCompleted })
}

func (r *memBookingRepo) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string) error {
	return r.conditionalUpdate(id, from, func(b *domain.Booking) {
		b.Status = domain.StatusCancelled
		b.CancellationReason = reason
		now := time.Now()
		b.CancelledAt = &now
		b.CapacityReleased = true
	})
}

type fakePromoRepo struct {
	promo  *domain.PromoCode
	usages []*domain.PromoUsage
}

func (r *fakePromoRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	if r.promo == nil || r.promo.Code != code {
		return nil, promoStorage.ErrPromoNotFound
	}
	return r.promo, nil
}

func (r *fakePromoRepo) RecordUsage(ctx context.Context, usage *domain.PromoUsage) error {
	r.usages = append(r.usages, usage)
	return nil
}

type fakeAdmission struct {
	released [][]domain.SlotKey
}

func (a *fakeAdmission) Release(ctx context.Context, keys []domain.SlotKey) error {
	a.released = append(a.released, keys)
	return nil
}

type fakePayment struct {
	status *paymentgateway.PaymentStatus
	err    error
}

func (p *fakePayment) VerifyPayment(ctx context.Context, bookingRef string) (*paymentgateway.PaymentStatus, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.status, nil
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		BookingRef:    "HS-20250701-ABCD1234",
		CustomerID:    101,
		CategoryID:    5,
		ScheduledDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		ScheduledSlot: types.Slot10to12,
		Items: []domain.ServiceLineItem{
			{ServiceID: 1, CategoryID: 5, Name: "Deep cleaning", Quantity: 1, PricePerUnit: 10000},
		},
		PaymentMethod: domain.PaymentCash,
		TotalAmount:   11800,
		Status:        status,
	}
}

type txFixture struct {
	uc        *UseCase
	repo      *memBookingRepo
	promos    *fakePromoRepo
	admission *fakeAdmission
	payment   *fakePayment
	publisher *recordingPublisher
}

func newFixture(bookings ...*domain.Booking) *txFixture {
	f := &txFixture{
		repo:      newMemBookingRepo(bookings...),
		promos:    &fakePromoRepo{},
		admission: &fakeAdmission{},
		payment:   &fakePayment{},
		publisher: &recordingPublisher{},
	}
	f.uc = NewUseCase(f.repo, f.promos, f.admission, f.payment, f.publisher, nopLogger{})
	return f
}

func customer() domain.Actor { return domain.Actor{UserID: 101, Role: domain.RoleCustomer} }
func admin() domain.Actor    { return domain.Actor{UserID: 1, Role: domain.RoleAdmin} }
func provider(id int64) domain.Actor {
	return domain.Actor{UserID: id, Role: domain.RoleProvider}
}

func TestTransition_CustomerCancelsOwnBooking(t *testing.T) {
	f := newFixture(testBooking(1, domain.StatusConfirmed))

	reason := "передумал"
	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        customer(),
		TargetStatus: string(domain.StatusCancelled),
		Reason:       &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	// Победитель отмены возвращает места и публикует событие
	require.Len(t, f.admission.released, 1)
	assert.Equal(t, []string{"booking.cancelled"}, f.publisher.keys)

	stored, _ := f.repo.GetByID(context.Background(), 1)
	assert.True(t, stored.CapacityReleased)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, reason, *stored.CancellationReason)
}

func TestTransition_CancelSkipsReleaseWhenCapacityAlreadyReleased(t *testing.T) {
	b := testBooking(1, domain.StatusConfirmed)
	b.CapacityReleased = true
	f := newFixture(b)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        customer(),
		TargetStatus: string(domain.StatusCancelled),
	})
	require.NoError(t, err)

	// Уже возвращенные места не возвращаются второй раз
	assert.Empty(t, f.admission.released)
	assert.Equal(t, []string{"booking.cancelled"}, f.publisher.keys)
}

func TestTransition_IllegalTransitionRejected(t *testing.T) {
	f := newFixture(testBooking(1, domain.StatusCompleted))

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        admin(),
		TargetStatus: string(domain.StatusCancelled),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, f.admission.released)
}

func TestTransition_AuthorizationMatrix(t *testing.T) {
	providerID := int64(55)

	tests := []struct {
		name    string
		status  domain.BookingStatus
		assign  *int64
		actor   domain.Actor
		target  domain.BookingStatus
		wantErr error
	}{
		{"stranger customer cannot cancel", domain.StatusConfirmed, nil,
			domain.Actor{UserID: 999, Role: domain.RoleCustomer}, domain.StatusCancelled, ErrForbidden},
		{"customer cannot complete", domain.StatusInProgress, &providerID,
			customer(), domain.StatusCompleted, ErrForbidden},
		{"unassigned provider cannot accept", domain.StatusAssigned, &providerID,
			provider(777), domain.StatusProviderAccepted, ErrForbidden},
		{"assigned provider accepts", domain.StatusAssigned, &providerID,
			provider(55), domain.StatusProviderAccepted, nil},
		{"provider cannot cancel", domain.StatusAssigned, &providerID,
			provider(55), domain.StatusCancelled, ErrForbidden},
		{"admin can cancel", domain.StatusAssigned, &providerID,
			admin(), domain.StatusCancelled, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBooking(1, tt.status)
			b.ProviderID = tt.assign
			f := newFixture(b)

			_, err := f.uc.Execute(context.Background(), &Request{
				BookingID:    1,
				Actor:        tt.actor,
				TargetStatus: string(tt.target),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransition_AssignRequiresProvider(t *testing.T) {
	f := newFixture(testBooking(1, domain.StatusConfirmed))

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        admin(),
		TargetStatus: string(domain.StatusAssigned),
	})
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestTransition_AssignSetsProvider(t *testing.T) {
	f := newFixture(testBooking(1, domain.StatusConfirmed))

	providerID := int64(55)
	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        admin(),
		TargetStatus: string(domain.StatusAssigned),
		ProviderID:   &providerID,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusAssigned), resp.Status)
	require.NotNil(t, resp.ProviderID)
	assert.Equal(t, providerID, *resp.ProviderID)
}

func TestTransition_ReassignAfterProviderRejection(t *testing.T) {
	b := testBooking(1, domain.StatusProviderRejected)
	first := int64(55)
	b.ProviderID = &first
	f := newFixture(b)

	second := int64(77)
	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        admin(),
		TargetStatus: string(domain.StatusAssigned),
		ProviderID:   &second,
	})
	require.NoError(t, err)
	assert.Equal(t, second, *resp.ProviderID)
}

func TestTransition_ConfirmOnlineRequiresVerifiedPayment(t *testing.T) {
	paymentID := "pay_123"

	tests := []struct {
		name    string
		status  *paymentgateway.PaymentStatus
		err     error
		wantErr error
	}{
		{"payment not found", nil, paymentgateway.ErrPaymentNotFound, ErrPaymentNotConfirmed},
		{"payment not verified", &paymentgateway.PaymentStatus{Verified: false}, nil, ErrPaymentNotConfirmed},
		{"payment verified", &paymentgateway.PaymentStatus{Verified: true, PaymentID: &paymentID}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBooking(1, domain.StatusPendingPayment)
			b.PaymentMethod = domain.PaymentOnline
			f := newFixture(b)
			f.payment.status = tt.status
			f.payment.err = tt.err

			resp, err := f.uc.Execute(context.Background(), &Request{
				BookingID:    1,
				Actor:        customer(),
				TargetStatus: string(domain.StatusConfirmed),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

			stored, _ := f.repo.GetByID(context.Background(), 1)
			require.NotNil(t, stored.GatewayPaymentID)
			assert.Equal(t, paymentID, *stored.GatewayPaymentID)
		})
	}
}

func TestTransition_CompleteRecordsPromoUsage(t *testing.T) {
	b := testBooking(1, domain.StatusInProgress)
	providerID := int64(55)
	b.ProviderID = &providerID
	code := "WELCOME10"
	b.DiscountCode = &code
	b.DiscountAmount = 1000
	f := newFixture(b)
	f.promos.promo = &domain.PromoCode{ID: 9, Code: code, IsActive: true}

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        provider(55),
		TargetStatus: string(domain.StatusCompleted),
	})
	require.NoError(t, err)

	require.Len(t, f.promos.usages, 1)
	usage := f.promos.usages[0]
	assert.Equal(t, int64(9), usage.PromoID)
	assert.Equal(t, int64(101), usage.CustomerID)
	assert.Equal(t, int64(1), usage.BookingID)
	assert.Equal(t, types.Money(1000), usage.Discount)
	assert.False(t, usage.UsedAt.IsZero())
	assert.Equal(t, []string{"booking.completed"}, f.publisher.keys)
}

func TestTransition_CompleteWithoutPromoSkipsUsage(t *testing.T) {
	b := testBooking(1, domain.StatusInProgress)
	providerID := int64(55)
	b.ProviderID = &providerID
	f := newFixture(b)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        provider(55),
		TargetStatus: string(domain.StatusCompleted),
	})
	require.NoError(t, err)
	assert.Empty(t, f.promos.usages)
}

func TestTransition_LoserGetsInvalidTransition(t *testing.T) {
	f := newFixture(testBooking(1, domain.StatusConfirmed))

	// Первый переход побеждает
	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        customer(),
		TargetStatus: string(domain.StatusCancelled),
	})
	require.NoError(t, err)

	// Проигравший пытается перевести из устаревшего статуса: загрузка уже
	// видит cancelled, легальность перехода отклоняется
	_, err = f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        admin(),
		TargetStatus: string(domain.StatusCancelled),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Места возвращены ровно один раз
	assert.Len(t, f.admission.released, 1)
}

// conflictingRepo имитирует проигрыш гонки: статус меняется между чтением
// бронирования usecase-ом и его условным обновлением.
type conflictingRepo struct {
	*memBookingRepo
	stale domain.BookingStatus
}

func (r *conflictingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := r.memBookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.stale != "" {
		b.Status = r.stale
		r.stale = ""
	}
	return b, nil
}

func TestTransition_ConflictAfterReadMapsToInvalidTransition(t *testing.T) {
	inner := newMemBookingRepo(testBooking(1, domain.StatusCancelled))
	repo := &conflictingRepo{memBookingRepo: inner, stale: domain.StatusConfirmed}

	promos := &fakePromoRepo{}
	adm := &fakeAdmission{}
	uc := NewUseCase(repo, promos, adm, &fakePayment{}, &recordingPublisher{}, nopLogger{})

	// Первое чтение видит устаревший confirmed, условное обновление
	// проигрывает, ошибка содержит актуальный статус
	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        admin(),
		TargetStatus: string(domain.StatusCancelled),
	})
	require.ErrorIs(t, err, ErrInvalidTransition)

	// Побочные эффекты проигравшего не выполняются
	assert.Empty(t, adm.released)
}

func TestTransition_BookingNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    404,
		Actor:        admin(),
		TargetStatus: string(domain.StatusCancelled),
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestTransition_StatusChangedEventForIntermediateSteps(t *testing.T) {
	b := testBooking(1, domain.StatusProviderAccepted)
	providerID := int64(55)
	b.ProviderID = &providerID
	f := newFixture(b)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		Actor:        provider(55),
		TargetStatus: string(domain.StatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"booking.status_changed"}, f.publisher.keys)
}
