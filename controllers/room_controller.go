// controllers/room_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"aparthotel-backend/models"
	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms        *services.RoomService
	Availability *services.AvailabilityService
}

func NewRoomController(rooms *services.RoomService, availability *services.AvailabilityService) *RoomController {
	return &RoomController{Rooms: rooms, Availability: availability}
}

// GET /api/rooms?complex=
func (ctl *RoomController) List(c *gin.Context) {
	rooms, err := ctl.Rooms.List(c.Query("complex"))
	if err != nil {
		log.Printf("room list: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load rooms")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/free?start=&end=&complex=
func (ctl *RoomController) Free(c *gin.Context) {
	rooms, err := ctl.Availability.FreeRooms(c.Query("start"), c.Query("end"), c.Query("complex"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("free rooms: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "search failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/complexes
func (ctl *RoomController) Complexes(c *gin.Context) {
	complexes, err := ctl.Rooms.Complexes()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not load complexes")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, complexes)
}

// POST /api/rooms
func (ctl *RoomController) Create(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room payload")
		return
	}

	if err := ctl.Rooms.Create(&room); err != nil {
		if errors.Is(err, services.ErrDuplicateRoom) {
			utils.JSONError(c, http.StatusConflict, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// PUT /api/rooms/:id
func (ctl *RoomController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input models.Room
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room payload")
		return
	}

	room, err := ctl.Rooms.Update(id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrDuplicateRoom):
			utils.JSONError(c, http.StatusConflict, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "could not update room")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DELETE /api/rooms/:id
func (ctl *RoomController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.Rooms.Delete(id); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("room delete: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not delete room")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "room deleted")
}
