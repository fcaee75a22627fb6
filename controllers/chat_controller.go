// controllers/chat_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"aparthotel-backend/middleware"
	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type SendMessagePayload struct {
	Body        string         `json:"body"`
	Attachments datatypes.JSON `json:"attachments"`
}

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(svc *services.ChatService) *ChatController {
	return &ChatController{Chat: svc}
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

// GET /api/chat/rooms
func (ctl *ChatController) Rooms(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rooms, err := ctl.Chat.Rooms(userID)
	if err != nil {
		log.Printf("chat rooms: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load chats")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// POST /api/chat/rooms
func (ctl *ChatController) CreateRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var payload struct {
		Name      string `json:"name" binding:"required"`
		MemberIDs []uint `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "name is required")
		return
	}

	room, err := ctl.Chat.CreateRoom(payload.Name, userID, payload.MemberIDs)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// POST /api/chat/direct/:userId
func (ctl *ChatController) DirectRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	room, err := ctl.Chat.DirectRoom(userID, uint(otherID))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// GET /api/chat/rooms/:id/messages?limit=
func (ctl *ChatController) Messages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := ctl.Chat.Messages(roomID, userID, limit)
	if err != nil {
		if errors.Is(err, services.ErrNotMember) {
			utils.JSONError(c, http.StatusForbidden, err.Error())
			return
		}
		log.Printf("chat messages: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load messages")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, messages)
}

// POST /api/chat/rooms/:id/messages
func (ctl *ChatController) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c)
	if !ok {
		return
	}
	var payload SendMessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid message payload")
		return
	}

	msg, err := ctl.Chat.SendMessage(roomID, userID, payload.Body, payload.Attachments)
	if err != nil {
		if errors.Is(err, services.ErrNotMember) {
			utils.JSONError(c, http.StatusForbidden, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, msg)
}

// DELETE /api/chat/rooms/:id
func (ctl *ChatController) LeaveRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.Chat.LeaveRoom(roomID, userID); err != nil {
		if errors.Is(err, services.ErrNotMember) {
			utils.JSONError(c, http.StatusForbidden, err.Error())
			return
		}
		log.Printf("leave chat room: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not leave chat")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "left chat room")
}

// POST /api/chat/rooms/:id/seen
func (ctl *ChatController) MarkSeen(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.Chat.MarkSeen(roomID, userID); err != nil {
		if errors.Is(err, services.ErrNotMember) {
			utils.JSONError(c, http.StatusForbidden, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not mark seen")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "seen")
}
