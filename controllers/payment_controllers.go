package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hotel-app/services"
	"github.com/yeremiapane/hotel-app/utils"
)

type PaymentController struct {
	Coordinator *services.Coordinator
	Bookings    *services.BookingService
}

func NewPaymentController(coordinator *services.Coordinator, bookings *services.BookingService) *PaymentController {
	return &PaymentController{Coordinator: coordinator, Bookings: bookings}
}

// RecordPayment -> staff mencatat pembayaran untuk satu booking
func (pc *PaymentController) RecordPayment(c *gin.Context) {
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

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Method string  `json:"method"` // cash, card, transfer
		Notes  string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.Coordinator.RecordPayment(actor, bookingID, services.PaymentRequest{
		Amount: req.Amount,
		Method: req.Method,
		Notes:  req.Notes,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment recorded", payment)
}

// GetPayments -> daftar pembayaran untuk satu booking
func (pc *PaymentController) GetPayments(c *gin.Context) {
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

	booking, err := pc.Bookings.GetBooking(bookingID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if !actor.IsStaff() && booking.UserID != actor.ID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	payments, err := pc.Bookings.ListPayments(bookingID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payments for booking", payments)
}
