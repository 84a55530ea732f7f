package services_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/hotel-app/apperrors"
	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/services"
	"github.com/yeremiapane/hotel-app/utils"
)

// recorderBus merekam publish untuk verifikasi ordering dan kontrak
// no-broadcast-on-abort
type recorderBus struct {
	mu     sync.Mutex
	events []string
}

func (r *recorderBus) Publish(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderBus) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type testEnv struct {
	db     *gorm.DB
	co     *services.Coordinator
	rooms  *services.RoomService
	ledger *services.BookingService
	audit  *audit.Store
	bus    *recorderBus
}

// setupEnv menggunakan SQLite in-memory dengan nama unik per test
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.Booking{},
		&models.Payment{}, &models.AuditEntry{},
	))

	bus := &recorderBus{}
	auditStore := audit.NewStore(db)
	locks := services.NewRoomLocker()
	ledger := services.NewBookingService(db)
	rooms := services.NewRoomService(db, locks, auditStore, bus)
	co := services.NewCoordinator(db, ledger, locks, auditStore, bus)

	return &testEnv{db: db, co: co, rooms: rooms, ledger: ledger, audit: auditStore, bus: bus}
}

func seedRoom(t *testing.T, db *gorm.DB, number string, rate float64) models.Room {
	t.Helper()
	room := models.Room{RoomNumber: number, Category: "standard", PricePerNight: rate, Status: models.RoomStatusAvailable}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     "Test " + role,
		Email:    fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func auditCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.AuditEntry{}).Count(&count).Error)
	return count
}

func TestReserveScenario(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "101", 100)
	client := seedUser(t, env.db, models.RoleClient)
	actor := services.Actor{ID: client.ID, Role: client.Role}

	// Jan 1 - Jan 5 -> 4 malam x 100 = 400
	booking, err := env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 1, 1), CheckOut: date(2026, 1, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, 400.0, booking.TotalCost)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)

	// Jan 3 - Jan 7 tumpang tindih -> conflict
	_, err = env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 1, 3), CheckOut: date(2026, 1, 7),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// Jan 5 - Jan 7 hanya menyentuh batas -> bukan conflict
	boundary, err := env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 1, 5), CheckOut: date(2026, 1, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, boundary.TotalCost)
}

func TestReserveMatchesQuote(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "202", 150)
	client := seedUser(t, env.db, models.RoleClient)
	actor := services.Actor{ID: client.ID, Role: client.Role}

	checkIn := date(2026, 3, 10)
	checkOut := date(2026, 3, 13)

	nights, quoted, err := env.ledger.Quote(room.ID, checkIn, checkOut)
	require.NoError(t, err)
	assert.Equal(t, 3, nights)

	booking, err := env.co.Reserve(actor, services.ReserveRequest{
		RoomID: room.ID, CheckIn: checkIn, CheckOut: checkOut,
	})
	require.NoError(t, err)
	assert.Equal(t, quoted, booking.TotalCost)
}

func TestConcurrentReserveExactlyOneSucceeds(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "303", 100)
	userA := seedUser(t, env.db, models.RoleClient)
	userB := seedUser(t, env.db, models.RoleClient)

	actors := []services.Actor{
		{ID: userA.ID, Role: userA.Role},
		{ID: userB.ID, Role: userB.Role},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.co.Reserve(actors[i], services.ReserveRequest{
				RoomID:  room.ID,
				CheckIn: date(2026, 2, 1), CheckOut: date(2026, 2, 5),
			})
		}(i)
	}
	wg.Wait()

	var okCount, conflictCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else if apperrors.IsKind(err, apperrors.KindConflict) {
			conflictCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactly one reservation must win")
	assert.Equal(t, 1, conflictCount, "the loser must get a conflict error")

	var total int64
	env.db.Model(&models.Booking{}).Where("room_id = ?", room.ID).Count(&total)
	assert.EqualValues(t, 1, total, "exactly one booking row may exist")
}

func TestCheckInHappyPath(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "404", 100)
	client := seedUser(t, env.db, models.RoleClient)
	staff := seedUser(t, env.db, models.RoleStaff)

	yesterday := time.Now().AddDate(0, 0, -1)
	booking, err := env.co.Reserve(services.Actor{ID: client.ID, Role: client.Role}, services.ReserveRequest{
		RoomID: room.ID, CheckIn: yesterday, CheckOut: yesterday.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	checked, err := env.co.CheckIn(services.Actor{ID: staff.ID, Role: staff.Role}, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCheckedIn, checked.Status)

	var fresh models.Room
	require.NoError(t, env.db.First(&fresh, room.ID).Error)
	assert.Equal(t, models.RoomStatusOccupied, fresh.Status)
}

func TestCheckInRejectsClients(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "405", 100)
	client := seedUser(t, env.db, models.RoleClient)
	actor := services.Actor{ID: client.ID, Role: client.Role}

	booking, err := env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 5, 1), CheckOut: date(2026, 5, 3),
	})
	require.NoError(t, err)

	_, err = env.co.CheckIn(actor, booking.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestCheckInBeforeArrivalDateFails(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "406", 100)
	client := seedUser(t, env.db, models.RoleClient)
	staff := seedUser(t, env.db, models.RoleStaff)

	tomorrow := time.Now().AddDate(0, 0, 1)
	booking, err := env.co.Reserve(services.Actor{ID: client.ID, Role: client.Role}, services.ReserveRequest{
		RoomID: room.ID, CheckIn: tomorrow, CheckOut: tomorrow.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	_, err = env.co.CheckIn(services.Actor{ID: staff.ID, Role: staff.Role}, booking.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// Tidak ada side effect: booking tetap CONFIRMED, kamar tetap AVAILABLE
	var fresh models.Booking
	require.NoError(t, env.db.First(&fresh, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, fresh.Status)
}

func TestCheckOutLatePenalty(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "505", 100)
	client := seedUser(t, env.db, models.RoleClient)
	staff := seedUser(t, env.db, models.RoleStaff)
	staffActor := services.Actor{ID: staff.ID, Role: staff.Role}

	// Booking yang check_out_date-nya kemarin: tamu telat checkout
	booking := models.Booking{
		ReferenceCode: "BK-late-test",
		UserID:        client.ID,
		RoomID:        room.ID,
		CheckInDate:   time.Now().AddDate(0, 0, -6),
		CheckOutDate:  time.Now().AddDate(0, 0, -1),
		TotalCost:     500,
		Status:        models.BookingStatusCheckedIn,
	}
	require.NoError(t, env.db.Create(&booking).Error)
	require.NoError(t, env.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.RoomStatusOccupied).Error)

	checked, err := env.co.CheckOut(staffActor, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCheckedOut, checked.Status)
	assert.Equal(t, 550.0, checked.TotalCost, "late penalty is half of one night")

	var fresh models.Room
	require.NoError(t, env.db.First(&fresh, room.ID).Error)
	assert.Equal(t, models.RoomStatusCleaning, fresh.Status)
}

func TestCheckOutOnTimeNoPenalty(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "506", 100)
	client := seedUser(t, env.db, models.RoleClient)
	staff := seedUser(t, env.db, models.RoleStaff)

	booking := models.Booking{
		ReferenceCode: "BK-ontime-test",
		UserID:        client.ID,
		RoomID:        room.ID,
		CheckInDate:   time.Now().AddDate(0, 0, -2),
		CheckOutDate:  time.Now(), // akhir hari ini belum lewat
		TotalCost:     200,
		Status:        models.BookingStatusCheckedIn,
	}
	require.NoError(t, env.db.Create(&booking).Error)

	checked, err := env.co.CheckOut(services.Actor{ID: staff.ID, Role: staff.Role}, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, checked.TotalCost)
}

func TestCheckOutRequiresCheckedIn(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "507", 100)
	client := seedUser(t, env.db, models.RoleClient)
	staff := seedUser(t, env.db, models.RoleStaff)

	booking, err := env.co.Reserve(services.Actor{ID: client.ID, Role: client.Role}, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 6, 1), CheckOut: date(2026, 6, 3),
	})
	require.NoError(t, err)

	_, err = env.co.CheckOut(services.Actor{ID: staff.ID, Role: staff.Role}, booking.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestFailedReserveHasZeroSideEffects(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "606", 100)
	client := seedUser(t, env.db, models.RoleClient)
	actor := services.Actor{ID: client.ID, Role: client.Role}

	_, err := env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 7, 1), CheckOut: date(2026, 7, 5),
	})
	require.NoError(t, err)

	auditBefore := auditCount(t, env.db)
	busBefore := env.bus.count()

	_, err = env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 7, 2), CheckOut: date(2026, 7, 4),
	})
	require.Error(t, err)

	assert.Equal(t, auditBefore, auditCount(t, env.db), "failed call must not write audit entries")
	assert.Equal(t, busBefore, env.bus.count(), "failed call must not broadcast")
}

func TestSuccessfulCallsAuditAndBroadcastOnce(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "607", 100)
	client := seedUser(t, env.db, models.RoleClient)
	actor := services.Actor{ID: client.ID, Role: client.Role}

	auditBefore := auditCount(t, env.db)
	busBefore := env.bus.count()

	_, err := env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 8, 1), CheckOut: date(2026, 8, 3),
	})
	require.NoError(t, err)

	assert.Equal(t, auditBefore+1, auditCount(t, env.db))
	assert.Equal(t, busBefore+1, env.bus.count())

	entries, err := env.audit.FindByActor(actor.AuditID(), 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, audit.ActionBookingCreate, entries[0].Action)
	assert.Contains(t, entries[0].Details, "previous_value")
	assert.Contains(t, entries[0].Details, "new_value")
	assert.Contains(t, entries[0].Details, "affected_entity_id")
}

func TestRecordPayment(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "707", 100)
	client := seedUser(t, env.db, models.RoleClient)
	staff := seedUser(t, env.db, models.RoleStaff)
	staffActor := services.Actor{ID: staff.ID, Role: staff.Role}

	booking, err := env.co.Reserve(services.Actor{ID: client.ID, Role: client.Role}, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 9, 1), CheckOut: date(2026, 9, 4),
	})
	require.NoError(t, err)

	payment, err := env.co.RecordPayment(staffActor, booking.ID, services.PaymentRequest{
		Amount: 300, Method: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, payment.Amount)

	// Pembayaran tidak mengubah status booking maupun kamar
	var freshBooking models.Booking
	require.NoError(t, env.db.First(&freshBooking, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, freshBooking.Status)

	var freshRoom models.Room
	require.NoError(t, env.db.First(&freshRoom, room.ID).Error)
	assert.Equal(t, models.RoomStatusAvailable, freshRoom.Status)

	// Validasi input
	_, err = env.co.RecordPayment(staffActor, booking.ID, services.PaymentRequest{Amount: -5})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = env.co.RecordPayment(staffActor, booking.ID, services.PaymentRequest{Amount: 10, Method: "bitcoin"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestReserveValidation(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "808", 100)
	client := seedUser(t, env.db, models.RoleClient)
	actor := services.Actor{ID: client.ID, Role: client.Role}

	// check_out <= check_in
	_, err := env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  room.ID,
		CheckIn: date(2026, 10, 5), CheckOut: date(2026, 10, 5),
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// kamar tidak ada
	_, err = env.co.Reserve(actor, services.ReserveRequest{
		RoomID:  9999,
		CheckIn: date(2026, 10, 1), CheckOut: date(2026, 10, 2),
	})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	// client tidak boleh reservasi atas nama user lain
	_, err = env.co.Reserve(actor, services.ReserveRequest{
		UserID: actor.ID + 1, RoomID: room.ID,
		CheckIn: date(2026, 10, 1), CheckOut: date(2026, 10, 2),
	})
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}
