package create_booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/infra/locks"
	promoStorage "github.com/kmatv/HS-BookingService/internal/infra/storage/promocode"
	"github.com/kmatv/HS-BookingService/internal/integrations/geoservice"
	"github.com/kmatv/HS-BookingService/internal/service/admission"
	"github.com/kmatv/HS-BookingService/pkg/txmanager"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type fakeBookingRepo struct {
	mu      sync.Mutex
	nextID  int64
	created []*domain.Booking
	err     error
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	stored := *b
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.created = append(r.created, &stored)
	return &stored, nil
}

type fakePromoRepo struct {
	promo    *domain.PromoCode
	userUses int64
}

func (r *fakePromoRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	if r.promo == nil || r.promo.Code != code {
		return nil, promoStorage.ErrPromoNotFound
	}
	return r.promo, nil
}

func (r *fakePromoRepo) CountUserApplications(ctx context.Context, promoID, customerID int64) (int64, error) {
	return r.userUses, nil
}

type fakeLimits struct {
	limits map[int64]int
}

func (f *fakeLimits) MaxConcurrent(ctx context.Context, categoryID int64) (*int, error) {
	if limit, ok := f.limits[categoryID]; ok {
		return &limit, nil
	}
	return nil, nil
}

type passthroughTxManager struct {
	err error
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

type fakeGeoChecker struct {
	err error
}

func (g *fakeGeoChecker) CheckServiceability(ctx context.Context, lat, lng float64) error {
	return g.err
}

type ucFixture struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	promoRepo   *fakePromoRepo
	publisher   *recordingPublisher
	geoChecker  *fakeGeoChecker
	txManager   *passthroughTxManager
	now         time.Time
}

func newFixture(limits map[int64]int) *ucFixture {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	f := &ucFixture{
		bookingRepo: &fakeBookingRepo{},
		promoRepo:   &fakePromoRepo{},
		publisher:   &recordingPublisher{},
		geoChecker:  &fakeGeoChecker{},
		txManager:   &passthroughTxManager{},
		now:         now,
	}

	controller := admission.NewController(admission.NewMemStore(), &fakeLimits{limits: limits}, nopLogger{})

	f.uc = NewUseCase(
		f.bookingRepo,
		f.promoRepo,
		controller,
		f.geoChecker,
		locks.NopLocker{},
		f.publisher,
		f.txManager,
		BillingPolicy{DefaultTaxRatePercent: 18.0},
		nopLogger{},
	)
	f.uc.timeProvider = &fixedTime{now: now}
	return f
}

func validRequest(now time.Time) *Request {
	return &Request{
		CustomerID:    101,
		ScheduledDate: now.AddDate(0, 0, 1),
		ScheduledSlot: types.Slot10to12,
		Items: []domain.LineItemInput{
			{ServiceID: 1, CategoryID: 5, Name: "Deep cleaning", Quantity: 1, PricePerUnit: 10000},
		},
		PaymentMethod: "cash",
	}
}

func TestCreateBooking_CashConfirmedImmediately(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.uc.Execute(context.Background(), validRequest(f.now))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.True(t, strings.HasPrefix(resp.BookingRef, "HS-20250702-"), "ref=%s", resp.BookingRef)
	assert.Equal(t, types.Money(10000), resp.SubTotal)
	assert.Equal(t, types.Money(1800), resp.TaxAmount)
	assert.Equal(t, types.Money(11800), resp.TotalAmount)
	assert.Equal(t, []string{"booking.created"}, f.publisher.keys)
}

func TestCreateBooking_OnlineWaitsForPayment(t *testing.T) {
	f := newFixture(nil)

	req := validRequest(f.now)
	req.PaymentMethod = "online"

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
}

func TestCreateBooking_ValidationFailures(t *testing.T) {
	f := newFixture(nil)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"no items", func(r *Request) { r.Items = nil }, ErrInvalidInput},
		{"bad slot", func(r *Request) { r.ScheduledSlot = "25:00 PM - 26:00 PM" }, ErrInvalidInput},
		{"bad payment method", func(r *Request) { r.PaymentMethod = "crypto" }, ErrInvalidInput},
		{"lat without lng", func(r *Request) {
			lat := 12.9
			r.Latitude = &lat
		}, ErrInvalidInput},
		{"past date", func(r *Request) { r.ScheduledDate = f.now.AddDate(0, 0, -1) }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(f.now)
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBooking_SameDayAllowed(t *testing.T) {
	f := newFixture(nil)

	req := validRequest(f.now)
	req.ScheduledDate = f.now // сегодня, не прошлое

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateBooking_PromoApplied(t *testing.T) {
	f := newFixture(nil)
	f.promoRepo.promo = &domain.PromoCode{
		ID:              1,
		Code:            "WELCOME10",
		DiscountType:    domain.DiscountPercentage,
		DiscountPercent: 10.0,
		IsActive:        true,
	}

	req := validRequest(f.now)
	code := "welcome10"
	req.PromoCode = &code

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Скидка 10% от отображаемой суммы позиций, код нормализован
	assert.Equal(t, types.Money(1000), resp.DiscountAmount)
	require.NotNil(t, resp.DiscountCode)
	assert.Equal(t, "WELCOME10", *resp.DiscountCode)
	assert.Equal(t, types.Money(10000-1000+1800), resp.TotalAmount)
}

func TestCreateBooking_PromoNotFoundRejected(t *testing.T) {
	f := newFixture(nil)

	req := validRequest(f.now)
	code := "NOSUCH"
	req.PromoCode = &code

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPromoRejected)
	assert.Empty(t, f.bookingRepo.created)
}

func TestCreateBooking_PromoMinBookingRejected(t *testing.T) {
	f := newFixture(nil)
	f.promoRepo.promo = &domain.PromoCode{
		ID:               1,
		Code:             "BIG",
		DiscountType:     domain.DiscountFixed,
		DiscountFlat:     5000,
		MinBookingAmount: 50000,
		IsActive:         true,
	}

	req := validRequest(f.now)
	code := "BIG"
	req.PromoCode = &code

	// Отказ промокода отклоняет запрос, а не создает бронирование без скидки
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPromoRejected)
	assert.Empty(t, f.bookingRepo.created)
}

func TestCreateBooking_CapacityExceeded(t *testing.T) {
	f := newFixture(map[int64]int{5: 1})

	_, err := f.uc.Execute(context.Background(), validRequest(f.now))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest(f.now))
	assert.ErrorIs(t, err, ErrSlotCapacityExceeded)
	assert.Len(t, f.bookingRepo.created, 1)
}

func TestCreateBooking_ConcurrentLastSpots(t *testing.T) {
	const limit = 2
	const attempts = 3

	f := newFixture(map[int64]int{5: limit})

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), validRequest(f.now))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotCapacityExceeded)
		}
	}
	assert.Equal(t, limit, succeeded)
	assert.Len(t, f.bookingRepo.created, limit)
}

func TestCreateBooking_MultiCategoryAllOrNothing(t *testing.T) {
	f := newFixture(map[int64]int{5: 10, 6: 0})

	req := validRequest(f.now)
	req.Items = append(req.Items, domain.LineItemInput{
		ServiceID: 2, CategoryID: 6, Name: "Sofa cleaning", Quantity: 1, PricePerUnit: 5000,
	})

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotCapacityExceeded)
	assert.Empty(t, f.bookingRepo.created)

	// Первая категория не должна удерживать место после отказа второй
	f2 := newFixture(map[int64]int{5: 1})
	_, err = f2.uc.Execute(context.Background(), validRequest(f.now))
	assert.NoError(t, err)
}

func TestCreateBooking_SerializationFailureMapsToContention(t *testing.T) {
	f := newFixture(nil)
	f.txManager.err = txmanager.ErrSerializationFailure

	_, err := f.uc.Execute(context.Background(), validRequest(f.now))
	assert.ErrorIs(t, err, ErrAdmissionContention)
}

func TestCreateBooking_GeoOutsideServiceArea(t *testing.T) {
	f := newFixture(nil)
	f.geoChecker.err = geoservice.ErrNotServiceable

	req := validRequest(f.now)
	lat, lng := 12.97, 77.59
	req.Latitude, req.Longitude = &lat, &lng

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideServiceArea)
}

func TestCreateBooking_GeoDegradedAdmitsByDefault(t *testing.T) {
	f := newFixture(nil)
	f.geoChecker.err = geoservice.ErrServiceDegraded

	req := validRequest(f.now)
	lat, lng := 12.97, 77.59
	req.Latitude, req.Longitude = &lat, &lng

	// Деградация геосервиса пропускает заказ без проверки
	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateBooking_GeoDegradedStrictRejects(t *testing.T) {
	f := newFixture(nil)
	f.geoChecker.err = geoservice.ErrServiceDegraded
	f.uc.policy.StrictServiceability = true

	req := validRequest(f.now)
	lat, lng := 12.97, 77.59
	req.Latitude, req.Longitude = &lat, &lng

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceAreaUnavailable)
}

func TestCreateBooking_CreateFailureReleasesSlots(t *testing.T) {
	f := newFixture(map[int64]int{5: 1})
	f.bookingRepo.err = errors.New("insert failed")

	_, err := f.uc.Execute(context.Background(), validRequest(f.now))
	assert.ErrorIs(t, err, ErrInternal)

	// Место возвращено: следующая попытка проходит
	f.bookingRepo.err = nil
	_, err = f.uc.Execute(context.Background(), validRequest(f.now))
	assert.NoError(t, err)
}
