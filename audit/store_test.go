package audit_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/hotel-app/apperrors"
	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/models"
)

func setupStore(t *testing.T) (*gorm.DB, *audit.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditEntry{}))
	return db, audit.NewStore(db)
}

func TestLogValidation(t *testing.T) {
	_, store := setupStore(t)

	details := map[string]interface{}{
		"previous_value":     "NONE",
		"new_value":          "CONFIRMED",
		"affected_entity_id": 1,
	}

	_, err := store.Log("", audit.ActionBookingCreate, details)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = store.Log(audit.ActorUser(1), "", details)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = store.Log(audit.ActorUser(1), audit.ActionBookingCreate, nil)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	entry, err := store.Log(audit.ActorUser(1), audit.ActionBookingCreate, details)
	require.NoError(t, err)
	assert.Equal(t, "user:1", entry.ActorID)
	assert.Contains(t, entry.Details, `"previous_value":"NONE"`)
	assert.Contains(t, entry.Details, `"new_value":"CONFIRMED"`)
}

func TestQueries(t *testing.T) {
	db, store := setupStore(t)

	details := map[string]interface{}{
		"previous_value":     "AVAILABLE",
		"new_value":          "CLEANING",
		"affected_entity_id": 7,
	}
	_, err := store.Log(audit.ActorUser(1), audit.ActionRoomStatusChange, details)
	require.NoError(t, err)
	_, err = store.Log(audit.ActorUser(2), audit.ActionRoomStatusChange, details)
	require.NoError(t, err)
	_, err = store.Log(audit.ActorSweeper, audit.ActionBookingExpire, details)
	require.NoError(t, err)

	byActor, err := store.FindByActor(audit.ActorUser(1), 10, 0)
	require.NoError(t, err)
	assert.Len(t, byActor, 1)

	byAction, err := store.FindByAction(audit.ActionRoomStatusChange, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byAction, 2)

	now := time.Now()
	inRange, err := store.FindByTimeRange(now.Add(-time.Minute), now.Add(time.Minute), 10, 0)
	require.NoError(t, err)
	assert.Len(t, inRange, 3)

	empty, err := store.FindByTimeRange(now.Add(time.Hour), now.Add(2*time.Hour), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = store.FindByTimeRange(now, now.Add(-time.Hour), 10, 0)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// Double check lewat DB langsung: ketiga entri masih ada apa adanya
	var count int64
	require.NoError(t, db.Model(&models.AuditEntry{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestPagination(t *testing.T) {
	_, store := setupStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Log(audit.ActorUser(9), audit.ActionRoomUpdate, map[string]interface{}{
			"previous_value":     i,
			"new_value":          i + 1,
			"affected_entity_id": 1,
		})
		require.NoError(t, err)
	}

	page, err := store.FindByActor(audit.ActorUser(9), 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.FindByActor(audit.ActorUser(9), 10, 4)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	// Limit di luar batas jatuh ke default
	all, err := store.FindByActor(audit.ActorUser(9), -1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
