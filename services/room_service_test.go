package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/hotel-app/apperrors"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/services"
)

func TestCreateRoom(t *testing.T) {
	env := setupEnv(t)
	admin := seedUser(t, env.db, models.RoleAdmin)
	adminActor := services.Actor{ID: admin.ID, Role: admin.Role}

	room, err := env.rooms.CreateRoom(adminActor, services.RoomRequest{
		RoomNumber: "101", Category: "deluxe", PricePerNight: 250,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)

	// Nomor kamar harus unik
	_, err = env.rooms.CreateRoom(adminActor, services.RoomRequest{
		RoomNumber: "101", PricePerNight: 100,
	})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// Tarif harus positif
	_, err = env.rooms.CreateRoom(adminActor, services.RoomRequest{
		RoomNumber: "102", PricePerNight: 0,
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// Staff tidak boleh membuat kamar
	staff := seedUser(t, env.db, models.RoleStaff)
	_, err = env.rooms.CreateRoom(services.Actor{ID: staff.ID, Role: staff.Role}, services.RoomRequest{
		RoomNumber: "103", PricePerNight: 100,
	})
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestSetStatusTransitions(t *testing.T) {
	env := setupEnv(t)
	staff := seedUser(t, env.db, models.RoleStaff)
	staffActor := services.Actor{ID: staff.ID, Role: staff.Role}

	room := seedRoom(t, env.db, "201", 100)

	// AVAILABLE -> MAINTENANCE boleh
	updated, err := env.rooms.SetStatus(staffActor, room.ID, models.RoomStatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusMaintenance, updated.Status)

	// MAINTENANCE -> AVAILABLE boleh
	updated, err = env.rooms.SetStatus(staffActor, room.ID, models.RoomStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)

	// AVAILABLE -> AVAILABLE idempoten, tetap sukses
	_, err = env.rooms.SetStatus(staffActor, room.ID, models.RoomStatusAvailable)
	assert.NoError(t, err)

	// OCCUPIED tidak pernah jadi target manual
	_, err = env.rooms.SetStatus(staffActor, room.ID, models.RoomStatusOccupied)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))

	// Status tidak dikenal
	_, err = env.rooms.SetStatus(staffActor, room.ID, "BROKEN")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// Client tidak boleh mengubah status
	client := seedUser(t, env.db, models.RoleClient)
	_, err = env.rooms.SetStatus(services.Actor{ID: client.ID, Role: client.Role}, room.ID, models.RoomStatusCleaning)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestSetStatusOccupiedRoomCannotBeFreedManually(t *testing.T) {
	env := setupEnv(t)
	staff := seedUser(t, env.db, models.RoleStaff)
	staffActor := services.Actor{ID: staff.ID, Role: staff.Role}
	client := seedUser(t, env.db, models.RoleClient)

	room := seedRoom(t, env.db, "202", 100)
	require.NoError(t, env.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.RoomStatusOccupied).Error)
	booking := models.Booking{
		ReferenceCode: "BK-occupied-test",
		UserID:        client.ID,
		RoomID:        room.ID,
		CheckInDate:   time.Now().AddDate(0, 0, -1),
		CheckOutDate:  time.Now().AddDate(0, 0, 2),
		TotalCost:     300,
		Status:        models.BookingStatusCheckedIn,
	}
	require.NoError(t, env.db.Create(&booking).Error)

	// OCCUPIED -> AVAILABLE manual selalu ditolak tabel transisi
	_, err := env.rooms.SetStatus(staffActor, room.ID, models.RoomStatusAvailable)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}

func TestSetStatusCleaningToAvailableBlockedByCheckedInBooking(t *testing.T) {
	env := setupEnv(t)
	staff := seedUser(t, env.db, models.RoleStaff)
	staffActor := services.Actor{ID: staff.ID, Role: staff.Role}
	client := seedUser(t, env.db, models.RoleClient)

	room := seedRoom(t, env.db, "203", 100)
	require.NoError(t, env.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.RoomStatusCleaning).Error)
	booking := models.Booking{
		ReferenceCode: "BK-cleaning-test",
		UserID:        client.ID,
		RoomID:        room.ID,
		CheckInDate:   time.Now().AddDate(0, 0, -1),
		CheckOutDate:  time.Now().AddDate(0, 0, 2),
		TotalCost:     300,
		Status:        models.BookingStatusCheckedIn,
	}
	require.NoError(t, env.db.Create(&booking).Error)

	_, err := env.rooms.SetStatus(staffActor, room.ID, models.RoomStatusAvailable)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))

	// Setelah booking-nya checkout, transisi yang sama jadi boleh
	require.NoError(t, env.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", models.BookingStatusCheckedOut).Error)
	updated, err := env.rooms.SetStatus(staffActor, room.ID, models.RoomStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)
}

func TestDeleteRoomBlockedByActiveBooking(t *testing.T) {
	env := setupEnv(t)
	admin := seedUser(t, env.db, models.RoleAdmin)
	adminActor := services.Actor{ID: admin.ID, Role: admin.Role}
	client := seedUser(t, env.db, models.RoleClient)

	room := seedRoom(t, env.db, "204", 100)
	booking := models.Booking{
		ReferenceCode: "BK-delete-test",
		UserID:        client.ID,
		RoomID:        room.ID,
		CheckInDate:   date(2026, 4, 1),
		CheckOutDate:  date(2026, 4, 3),
		TotalCost:     200,
		Status:        models.BookingStatusConfirmed,
	}
	require.NoError(t, env.db.Create(&booking).Error)

	err := env.rooms.DeleteRoom(adminActor, room.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	require.NoError(t, env.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", models.BookingStatusCancelled).Error)
	require.NoError(t, env.rooms.DeleteRoom(adminActor, room.ID))

	_, err = env.rooms.GetRoom(room.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListByStatus(t *testing.T) {
	env := setupEnv(t)
	seedRoom(t, env.db, "301", 100)
	roomB := seedRoom(t, env.db, "302", 100)
	require.NoError(t, env.db.Model(&models.Room{}).Where("id = ?", roomB.ID).
		Update("status", models.RoomStatusMaintenance).Error)

	all, err := env.rooms.ListByStatus("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	maint, err := env.rooms.ListByStatus(models.RoomStatusMaintenance)
	require.NoError(t, err)
	require.Len(t, maint, 1)
	assert.Equal(t, "302", maint[0].RoomNumber)

	_, err = env.rooms.ListByStatus("NOPE")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestQuoteValidation(t *testing.T) {
	env := setupEnv(t)
	room := seedRoom(t, env.db, "401", 120)

	nights, total, err := env.ledger.Quote(room.ID, date(2026, 1, 1), date(2026, 1, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, nights)
	assert.Equal(t, 360.0, total)

	_, _, err = env.ledger.Quote(room.ID, date(2026, 1, 4), date(2026, 1, 4))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, _, err = env.ledger.Quote(9999, date(2026, 1, 1), date(2026, 1, 2))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestFindConflictsIgnoresInactiveBookings(t *testing.T) {
	env := setupEnv(t)
	client := seedUser(t, env.db, models.RoleClient)
	room := seedRoom(t, env.db, "402", 100)

	cancelled := models.Booking{
		ReferenceCode: "BK-cancelled-test",
		UserID:        client.ID,
		RoomID:        room.ID,
		CheckInDate:   date(2026, 1, 1),
		CheckOutDate:  date(2026, 1, 10),
		TotalCost:     900,
		Status:        models.BookingStatusCancelled,
	}
	require.NoError(t, env.db.Create(&cancelled).Error)

	conflicts, err := env.ledger.FindConflicts(nil, room.ID, date(2026, 1, 2), date(2026, 1, 5), 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts, "cancelled bookings never conflict")
}
