package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats mengambil statistik untuk dashboard admin
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalBookings int64   `json:"total_bookings"`
		TodayBookings int64   `json:"today_bookings"`
		TotalRevenue  float64 `json:"total_revenue"`
		TodayRevenue  float64 `json:"today_revenue"`
		BookingStats  struct {
			Confirmed  int64 `json:"confirmed"`
			CheckedIn  int64 `json:"checked_in"`
			CheckedOut int64 `json:"checked_out"`
			Cancelled  int64 `json:"cancelled"`
		} `json:"booking_stats"`
		RoomStats struct {
			Available   int64 `json:"available"`
			Occupied    int64 `json:"occupied"`
			Cleaning    int64 `json:"cleaning"`
			Maintenance int64 `json:"maintenance"`
		} `json:"room_stats"`
	}

	ac.DB.Model(&models.Booking{}).Count(&stats.TotalBookings)
	ac.DB.Model(&models.Booking{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayBookings)

	ac.DB.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Row().Scan(&stats.TotalRevenue)
	ac.DB.Model(&models.Payment{}).Where("DATE(created_at) = ?", today).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&stats.TodayRevenue)

	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusConfirmed).Count(&stats.BookingStats.Confirmed)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCheckedIn).Count(&stats.BookingStats.CheckedIn)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCheckedOut).Count(&stats.BookingStats.CheckedOut)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCancelled).Count(&stats.BookingStats.Cancelled)

	ac.DB.Model(&models.Room{}).Where("status = ?", models.RoomStatusAvailable).Count(&stats.RoomStats.Available)
	ac.DB.Model(&models.Room{}).Where("status = ?", models.RoomStatusOccupied).Count(&stats.RoomStats.Occupied)
	ac.DB.Model(&models.Room{}).Where("status = ?", models.RoomStatusCleaning).Count(&stats.RoomStats.Cleaning)
	ac.DB.Model(&models.Room{}).Where("status = ?", models.RoomStatusMaintenance).Count(&stats.RoomStats.Maintenance)

	utils.RespondJSON(c, http.StatusOK, "Dashboard statistics", stats)
}
