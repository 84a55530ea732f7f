package services

import (
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/utils"
)

// StaleBookingAge -> booking CONFIRMED yang lebih tua dari ini dianggap
// terbengkalai dan dibatalkan oleh sweeper.
const StaleBookingAge = 24 * time.Hour

type SweepResult struct {
	Count       int    `json:"count"`
	AffectedIDs []uint `json:"affected_ids"`
}

// ExpirySweeper cancels stale unconfirmed reservations on a fixed
// interval. Its actions are attributed to a reserved system identity in
// the audit trail. Errors are logged and the next scheduled sweep runs
// regardless.
type ExpirySweeper struct {
	db       *gorm.DB
	audit    *audit.Store
	Interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewExpirySweeper(db *gorm.DB, auditStore *audit.Store) *ExpirySweeper {
	return &ExpirySweeper{
		db:       db,
		audit:    auditStore,
		Interval: 1 * time.Hour,
		stopChan: make(chan struct{}),
	}
}

// Start menjalankan goroutine sweeper sampai Stop dipanggil
func (es *ExpirySweeper) Start() {
	go func() {
		ticker := time.NewTicker(es.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := es.Sweep(); err != nil {
					utils.ErrorLogger.Printf("Error during expiry sweep: %v", err)
				}
			case <-es.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Expiry sweeper started (interval=%s)", es.Interval)
}

func (es *ExpirySweeper) Stop() {
	es.stopOnce.Do(func() { close(es.stopChan) })
}

// Sweep -> batalkan semua booking CONFIRMED yang lebih tua dari
// StaleBookingAge dalam satu batch, lalu tulis satu audit entry untuk
// seluruh sweep (bukan per booking) atas nama system actor.
func (es *ExpirySweeper) Sweep() (*SweepResult, error) {
	cutoff := time.Now().Add(-StaleBookingAge)

	var affectedIDs []uint
	err := es.db.Transaction(func(tx *gorm.DB) error {
		var candidates []uint
		if err := tx.Model(&models.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ?", models.BookingStatusConfirmed).
			Where("created_at < ?", cutoff).
			Pluck("id", &candidates).Error; err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		// Guard status ikut di mutasi: booking yang keburu check-in di
		// antara baca dan tulis tidak boleh ikut dibatalkan
		res := tx.Model(&models.Booking{}).
			Where("id IN ?", candidates).
			Where("status = ?", models.BookingStatusConfirmed).
			Update("status", models.BookingStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == int64(len(candidates)) {
			affectedIDs = candidates
			return nil
		}
		return tx.Model(&models.Booking{}).
			Where("id IN ?", candidates).
			Where("status = ?", models.BookingStatusCancelled).
			Pluck("id", &affectedIDs).Error
	})
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Count: len(affectedIDs), AffectedIDs: affectedIDs}
	if result.Count == 0 {
		return result, nil
	}

	if _, err := es.audit.Log(audit.ActorSweeper, audit.ActionBookingExpire, map[string]interface{}{
		"previous_value":     models.BookingStatusConfirmed,
		"new_value":          models.BookingStatusCancelled,
		"affected_entity_id": affectedIDs[0],
		"affected_count":     result.Count,
		"affected_ids":       affectedIDs,
	}); err != nil {
		utils.ErrorLogger.Printf("Error writing sweep audit entry: %v", err)
	}

	utils.InfoLogger.Printf("Expiry sweep cancelled %d stale booking(s)", result.Count)
	return result, nil
}
