package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/services"
	"github.com/yeremiapane/hotel-app/utils"
)

type BookingController struct {
	Coordinator *services.Coordinator
	Bookings    *services.BookingService
}

func NewBookingController(coordinator *services.Coordinator, bookings *services.BookingService) *BookingController {
	return &BookingController{Coordinator: coordinator, Bookings: bookings}
}

const dateLayout = "2006-01-02"

// CreateBooking -> buat reservasi baru lewat coordinator
func (bc *BookingController) CreateBooking(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		RoomID   uint   `json:"room_id" binding:"required"`
		UserID   uint   `json:"user_id"` // staff boleh reservasi atas nama tamu
		CheckIn  string `json:"check_in_date" binding:"required"`
		CheckOut string `json:"check_out_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("check_in_date must be YYYY-MM-DD"))
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("check_out_date must be YYYY-MM-DD"))
		return
	}

	booking, err := bc.Coordinator.Reserve(actor, services.ReserveRequest{
		UserID:   req.UserID,
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// QuoteBooking -> hitung jumlah malam dan biaya tanpa membuat reservasi
func (bc *BookingController) QuoteBooking(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("room_id query parameter is required"))
		return
	}
	checkIn, err := time.Parse(dateLayout, c.Query("check_in_date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("check_in_date must be YYYY-MM-DD"))
		return
	}
	checkOut, err := time.Parse(dateLayout, c.Query("check_out_date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("check_out_date must be YYYY-MM-DD"))
		return
	}

	nights, total, err := bc.Bookings.Quote(uint(roomID), checkIn, checkOut)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking quote", gin.H{
		"nights":               nights,
		"total_cost":           total,
		"total_cost_formatted": utils.FormatCurrencyIDR(total),
	})
}

// GetAllBookings -> khusus staff/admin
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != models.RoleStaff && roleInterface != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	bookings, err := bc.Bookings.ListAll()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// GetMyBookings -> booking milik user yang sedang login
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	bookings, err := bc.Bookings.ListForUser(actor.ID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Your bookings", bookings)
}

// GetBookingByID -> detail satu booking; client hanya boleh melihat miliknya
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	bookingID, err := paramUint(c, "booking_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Bookings.GetBooking(bookingID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if !actor.IsStaff() && booking.UserID != actor.ID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// CheckIn -> staff menandai tamu masuk
func (bc *BookingController) CheckIn(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	bookingID, err := paramUint(c, "booking_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Coordinator.CheckIn(actor, bookingID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Guest checked in", booking)
}

// CheckOut -> staff menandai tamu keluar
func (bc *BookingController) CheckOut(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	bookingID, err := paramUint(c, "booking_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Coordinator.CheckOut(actor, bookingID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Guest checked out", booking)
}
