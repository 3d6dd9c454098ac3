package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/lunch-order/internal/clock"
	"github.com/vasiliy-maslov/lunch-order/internal/order"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Upsert(ctx context.Context, rec *order.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByDay(ctx context.Context, day time.Time) ([]order.Record, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Record), args.Error(1)
}

func (m *MockOrderRepository) FindByKey(ctx context.Context, identity string, day time.Time) (*order.Record, error) {
	args := m.Called(ctx, identity, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Record), args.Error(1)
}

func (m *MockOrderRepository) FindEarliestByDay(ctx context.Context, day time.Time) (*order.Record, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Record), args.Error(1)
}

func (m *MockOrderRepository) DeleteByKey(ctx context.Context, identity string, day time.Time) error {
	args := m.Called(ctx, identity, day)
	return args.Error(0)
}

var (
	testNow   = time.Date(2025, 4, 16, 9, 15, 0, 0, time.UTC)
	testToday = time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)
)

func TestDay(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "utc_morning",
			in:   time.Date(2025, 4, 16, 9, 15, 30, 500, time.UTC),
			want: testToday,
		},
		{
			name: "already_midnight",
			in:   testToday,
			want: testToday,
		},
		{
			name: "local_date_wins_over_utc_date",
			in:   time.Date(2025, 4, 17, 1, 30, 0, 0, paris), // 23:30 UTC on the 16th
			want: time.Date(2025, 4, 17, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(order.Day(tt.in)), "got %s", order.Day(tt.in))
		})
	}
}

func TestOrderService_Upsert_Success(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, clock.NewFixed(testNow))

	storedID := uuid.Must(uuid.NewV4())
	mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(rec *order.Record) bool {
		return rec.Identity == "alice" &&
			rec.Content == "pizza" &&
			rec.Day.Equal(testToday) &&
			rec.CreatedAt.Equal(testNow)
	})).Run(func(args mock.Arguments) {
		rec := args.Get(1).(*order.Record)
		rec.ID = storedID
		rec.Seq = 1
	}).Return(nil).Once()

	rec, err := svc.Upsert(context.Background(), "alice", testNow, "pizza")

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, storedID, rec.ID)
	assert.Equal(t, int64(1), rec.Seq)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_Upsert_EmptyIdentity(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, clock.NewFixed(testNow))

	rec, err := svc.Upsert(context.Background(), "  ", testNow, "pizza")

	require.ErrorIs(t, err, order.ErrInvalidIdentity)
	require.Nil(t, rec)
	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestOrderService_Upsert_RepositoryError(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, clock.NewFixed(testNow))

	dbErr := errors.New("connection refused")
	mockRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*order.Record")).Return(dbErr).Once()

	rec, err := svc.Upsert(context.Background(), "alice", testNow, "pizza")

	require.Error(t, err)
	require.ErrorIs(t, err, dbErr)
	require.Nil(t, rec)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_FindForDay_TruncatesDay(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, clock.NewFixed(testNow))

	expected := []order.Record{
		{Identity: "alice", Day: testToday, Content: "pizza", Seq: 1},
		{Identity: "bob", Day: testToday, Content: "salad", Seq: 2},
	}
	mockRepo.On("FindByDay", mock.Anything, testToday).Return(expected, nil).Once()

	records, err := svc.FindForDay(context.Background(), testNow)

	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expected, records))
	mockRepo.AssertExpectations(t)
}

func TestOrderService_FindOne(t *testing.T) {
	dbErr := errors.New("timeout")

	tests := []struct {
		name      string
		repoRec   *order.Record
		repoErr   error
		wantErrIs error
	}{
		{
			name:    "found",
			repoRec: &order.Record{Identity: "alice", Day: testToday, Content: "pizza"},
		},
		{
			name:      "not_found",
			repoErr:   order.ErrOrderNotFound,
			wantErrIs: order.ErrOrderNotFound,
		},
		{
			name:      "repository_failure",
			repoErr:   dbErr,
			wantErrIs: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			svc := order.NewService(mockRepo, clock.NewFixed(testNow))

			mockRepo.On("FindByKey", mock.Anything, "alice", testToday).Return(tt.repoRec, tt.repoErr).Once()

			rec, err := svc.FindOne(context.Background(), "alice", testNow)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				assert.Nil(t, rec)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.repoRec, rec)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_EarliestForDay_NotFound(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, clock.NewFixed(testNow))

	mockRepo.On("FindEarliestByDay", mock.Anything, testToday).Return(nil, order.ErrOrderNotFound).Once()

	rec, err := svc.EarliestForDay(context.Background(), testNow)

	require.ErrorIs(t, err, order.ErrOrderNotFound)
	require.Nil(t, rec)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_Remove(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, clock.NewFixed(testNow))

	mockRepo.On("DeleteByKey", mock.Anything, "alice", testToday).Return(nil).Once()

	require.NoError(t, svc.Remove(context.Background(), "alice", testNow))
	mockRepo.AssertExpectations(t)
}
