package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hotel-app/services"
	"github.com/yeremiapane/hotel-app/utils"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

// CreateRoom -> admin menambahkan kamar baru
func (rc *RoomController) CreateRoom(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		RoomNumber    string  `json:"room_number" binding:"required"`
		Category      string  `json:"category"`
		PricePerNight float64 `json:"price_per_night" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	room, err := rc.Rooms.CreateRoom(actor, services.RoomRequest{
		RoomNumber:    req.RoomNumber,
		Category:      req.Category,
		PricePerNight: req.PricePerNight,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Room created successfully", room)
}

// UpdateRoomPricing -> admin mengubah tarif kamar
func (rc *RoomController) UpdateRoomPricing(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	roomID, err := paramUint(c, "room_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		PricePerNight float64 `json:"price_per_night" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	room, err := rc.Rooms.UpdateRoomPricing(actor, roomID, req.PricePerNight)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Room pricing updated", room)
}

// DeleteRoom -> admin menghapus kamar
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	roomID, err := paramUint(c, "room_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.Rooms.DeleteRoom(actor, roomID); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Room deleted", gin.H{"id": roomID})
}

// UpdateRoomStatus -> staff/admin mengubah status kamar lewat state machine
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	roomID, err := paramUint(c, "room_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	room, err := rc.Rooms.SetStatus(actor, roomID, body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Room status updated", room)
}

// GetAllRooms -> seluruh kamar, opsional ?status=AVAILABLE
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	rooms, err := rc.Rooms.ListByStatus(c.Query("status"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of rooms", rooms)
}

// GetRoomByID -> detail satu kamar
func (rc *RoomController) GetRoomByID(c *gin.Context) {
	roomID, err := paramUint(c, "room_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	room, err := rc.Rooms.GetRoom(roomID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room detail", room)
}

func paramUint(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
