package conflict_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"facility/config"
	"facility/infras/otel/mocks"
	"facility/internal/domains/reservation/conflict"
	rsvMocks "facility/internal/domains/reservation/mocks"
	"facility/internal/domains/reservation/model"
	"facility/internal/domains/reservation/repository"
	"facility/internal/testfixtures"
	"facility/shared/failure"
)

const (
	roomID = "room-1"
	day    = "2024-06-10"
)

func newConfig(retries int) *config.Config {
	cfg := &config.Config{}
	cfg.Booking.MaxWriteRetries = retries
	cfg.Booking.RetryBackoffMillis = 0

	return cfg
}

func insert(store *testfixtures.ReservationStore, r model.Reservation) conflict.WriteFunc {
	return func(ctx context.Context, snapshot model.Snapshot) error {
		return store.InsertGuarded(ctx, r, snapshot.Version)
	}
}

func TestFindConflict(t *testing.T) {
	existing := []model.Reservation{
		testfixtures.Reservation("rsv-a", roomID, day, "09:00", "10:00", "alice"),
		testfixtures.Reservation("rsv-b", roomID, day, "13:00", "14:00", "bob"),
	}

	cancelled := testfixtures.Reservation("rsv-c", roomID, day, "11:00", "12:00", "carol")
	cancelled.Status = model.StatusCancelled
	existing = append(existing, cancelled)

	tests := []struct {
		name      string
		candidate model.Interval
		excludeID string
		want      string
	}{
		{name: "overlaps first", candidate: testfixtures.Slot("09:30", "10:30"), want: "rsv-a"},
		{name: "overlaps second", candidate: testfixtures.Slot("12:30", "13:30"), want: "rsv-b"},
		{name: "touching is free", candidate: testfixtures.Slot("10:00", "11:00")},
		{name: "cancelled does not block", candidate: testfixtures.Slot("11:00", "12:00")},
		{name: "excluded reservation does not block itself", candidate: testfixtures.Slot("09:15", "09:45"), excludeID: "rsv-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conflict.FindConflict(existing, tt.candidate, tt.excludeID)

			if tt.want == "" {
				assert.Nil(t, got)

				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestDetector_Propose(t *testing.T) {
	store := testfixtures.NewReservationStore(
		testfixtures.Reservation("rsv-a", roomID, day, "09:00", "10:00", "alice"),
	)
	detector := conflict.New(store, newConfig(3), mocks.NewOtel())
	key := model.NewBookingKey(roomID, testfixtures.Day(day))

	proposal, err := detector.Propose(context.Background(), key, testfixtures.Slot("09:30", "11:00"), "")
	require.NoError(t, err)
	assert.False(t, proposal.Accepted())
	assert.Equal(t, "rsv-a", proposal.Conflict.ID)
	assert.Equal(t, int64(1), proposal.Snapshot.Version)

	proposal, err = detector.Propose(context.Background(), key, testfixtures.Slot("10:00", "11:00"), "")
	require.NoError(t, err)
	assert.True(t, proposal.Accepted())
}

func TestDetector_Propose_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := rsvMocks.NewMockReservation(ctrl)
	mockRepo.EXPECT().Snapshot(gomock.Any(), gomock.Any()).Return(model.Snapshot{}, errors.New("connection refused"))

	detector := conflict.New(mockRepo, newConfig(3), mocks.NewOtel())

	_, err := detector.Propose(context.Background(), model.NewBookingKey(roomID, testfixtures.Day(day)), testfixtures.Slot("09:00", "10:00"), "")
	assert.Error(t, err)
}

func TestDetector_Guard(t *testing.T) {
	key := model.NewBookingKey(roomID, testfixtures.Day(day))

	t.Run("writes when free", func(t *testing.T) {
		store := testfixtures.NewReservationStore()
		detector := conflict.New(store, newConfig(3), mocks.NewOtel())
		r := testfixtures.Reservation("rsv-new", roomID, day, "09:00", "10:00", "alice")

		err := detector.Guard(context.Background(), key, r.Interval(), "", insert(store, r))
		require.NoError(t, err)
		assert.Len(t, store.Confirmed(key), 1)
		assert.Equal(t, int64(1), store.Version(key))
	})

	t.Run("rejects overlap without writing", func(t *testing.T) {
		store := testfixtures.NewReservationStore(
			testfixtures.Reservation("rsv-a", roomID, day, "09:00", "10:00", "alice"),
		)
		detector := conflict.New(store, newConfig(3), mocks.NewOtel())
		r := testfixtures.Reservation("rsv-new", roomID, day, "09:30", "10:30", "bob")

		err := detector.Guard(context.Background(), key, r.Interval(), "", insert(store, r))
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Len(t, store.Confirmed(key), 1)
	})

	t.Run("retries after a concurrent write and then sees the conflict", func(t *testing.T) {
		store := testfixtures.NewReservationStore()
		competitor := testfixtures.Reservation("rsv-other", roomID, day, "09:00", "10:00", "bob")

		var once sync.Once
		store.AfterSnapshot = func(k model.BookingKey) {
			once.Do(func() {
				require.NoError(t, store.InsertGuarded(context.Background(), competitor, store.Version(k)))
			})
		}

		detector := conflict.New(store, newConfig(3), mocks.NewOtel())
		r := testfixtures.Reservation("rsv-new", roomID, day, "09:30", "10:30", "alice")

		err := detector.Guard(context.Background(), key, r.Interval(), "", insert(store, r))
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))

		confirmed := store.Confirmed(key)
		require.Len(t, confirmed, 1)
		assert.Equal(t, "rsv-other", confirmed[0].ID)
	})

	t.Run("retries after a concurrent disjoint write and succeeds", func(t *testing.T) {
		store := testfixtures.NewReservationStore()
		competitor := testfixtures.Reservation("rsv-other", roomID, day, "14:00", "15:00", "bob")

		var once sync.Once
		store.AfterSnapshot = func(k model.BookingKey) {
			once.Do(func() {
				require.NoError(t, store.InsertGuarded(context.Background(), competitor, store.Version(k)))
			})
		}

		detector := conflict.New(store, newConfig(3), mocks.NewOtel())
		r := testfixtures.Reservation("rsv-new", roomID, day, "09:00", "10:00", "alice")

		require.NoError(t, detector.Guard(context.Background(), key, r.Interval(), "", insert(store, r)))
		assert.Len(t, store.Confirmed(key), 2)
		assert.Equal(t, int64(2), store.Version(key))
	})

	t.Run("gives up with conflict when the version keeps moving", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := rsvMocks.NewMockReservation(ctrl)
		mockRepo.EXPECT().Snapshot(gomock.Any(), key).Return(model.Snapshot{Key: key}, nil).Times(3)

		detector := conflict.New(mockRepo, newConfig(2), mocks.NewOtel())

		var writes int
		err := detector.Guard(context.Background(), key, testfixtures.Slot("09:00", "10:00"), "", func(context.Context, model.Snapshot) error {
			writes++

			return repository.ErrStaleVersion
		})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, 3, writes)
	})

	t.Run("does not retry other write errors", func(t *testing.T) {
		store := testfixtures.NewReservationStore()
		detector := conflict.New(store, newConfig(3), mocks.NewOtel())
		boom := errors.New("disk full")

		var writes int
		err := detector.Guard(context.Background(), key, testfixtures.Slot("09:00", "10:00"), "", func(context.Context, model.Snapshot) error {
			writes++

			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, writes)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		store := testfixtures.NewReservationStore()
		detector := conflict.New(store, newConfig(3), mocks.NewOtel())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := detector.Guard(ctx, key, testfixtures.Slot("09:00", "10:00"), "", func(context.Context, model.Snapshot) error {
			return nil
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDetector_Guard_ConcurrentOverlappingRequests(t *testing.T) {
	const workers = 16

	store := testfixtures.NewReservationStore()
	detector := conflict.New(store, newConfig(workers), mocks.NewOtel())
	key := model.NewBookingKey(roomID, testfixtures.Day(day))

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			r := testfixtures.Reservation(fmt.Sprintf("rsv-%d", i), roomID, day, "09:00", "10:00", fmt.Sprintf("user-%d", i))

			err := detector.Guard(context.Background(), key, r.Interval(), "", insert(store, r))
			switch {
			case err == nil:
				succeeded.Add(1)
			case failure.GetCode(err) == http.StatusConflict:
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())
	assert.Len(t, store.Confirmed(key), 1)
}

func TestDetector_Guard_ConcurrentDisjointRequests(t *testing.T) {
	const workers = 8

	store := testfixtures.NewReservationStore()
	detector := conflict.New(store, newConfig(workers), mocks.NewOtel())
	key := model.NewBookingKey(roomID, testfixtures.Day(day))

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			start := fmt.Sprintf("%02d:00", 8+i)
			end := fmt.Sprintf("%02d:00", 9+i)
			r := testfixtures.Reservation(fmt.Sprintf("rsv-%d", i), roomID, day, start, end, "alice")

			assert.NoError(t, detector.Guard(context.Background(), key, r.Interval(), "", insert(store, r)))
		}()
	}

	wg.Wait()

	confirmed := store.Confirmed(key)
	require.Len(t, confirmed, workers)

	for i := 1; i < len(confirmed); i++ {
		assert.False(t, confirmed[i-1].Interval().Overlaps(confirmed[i].Interval()))
	}

	assert.Equal(t, int64(workers), store.Version(key))
}
