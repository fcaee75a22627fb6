// controllers/auth_controller.go
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
)

type LoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Code     string `json:"code"`
}

type ApprovePayload struct {
	Role string `json:"role" binding:"required"`
}

type CreateUserPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role" binding:"required"`
}

type AuthController struct {
	Auth         *services.AuthService
	Verification *services.VerificationService
}

func NewAuthController(auth *services.AuthService, verification *services.VerificationService) *AuthController {
	return &AuthController{Auth: auth, Verification: verification}
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, user, err := ctl.Auth.Login(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("login: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "login failed")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.DisplayName(),
			"role":     user.Role,
		},
	})
}

// POST /api/auth/register
func (ctl *AuthController) Register(c *gin.Context) {
	var payload RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	// An emailed code, when supplied, must match before the request is filed.
	if payload.Email != "" && payload.Code != "" {
		if err := ctl.Verification.VerifyCode(c.Request.Context(), payload.Email, payload.Code); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	req, err := ctl.Auth.Register(payload.Username, payload.Password, payload.Name, payload.Email)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"request_id": req.ID,
		"status":     req.Status,
	})
}

// POST /api/auth/verification/request
func (ctl *AuthController) RequestVerificationCode(c *gin.Context) {
	var payload struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "a valid email is required")
		return
	}

	if err := ctl.Verification.RequestCode(c.Request.Context(), payload.Email); err != nil {
		log.Printf("verification request: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not send verification code")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "verification code sent to "+utils.MaskEmail(payload.Email))
}

// POST /api/auth/verification/confirm
func (ctl *AuthController) ConfirmVerificationCode(c *gin.Context) {
	var payload struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email and code are required")
		return
	}

	err := ctl.Verification.VerifyCode(c.Request.Context(), payload.Email, payload.Code)
	switch {
	case err == nil:
		utils.JSONMessage(c, http.StatusOK, "email verified")
	case errors.Is(err, services.ErrCodeExpired), errors.Is(err, services.ErrCodeMismatch):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("verification confirm: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "verification failed")
	}
}

// GET /api/admin/registration-requests
func (ctl *AuthController) PendingRequests(c *gin.Context) {
	requests, err := ctl.Auth.PendingRequests()
	if err != nil {
		log.Printf("pending requests: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load requests")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, requests)
}

// POST /api/admin/registration-requests/:id/approve
func (ctl *AuthController) ApproveRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request id")
		return
	}
	var payload ApprovePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "role is required")
		return
	}

	user, err := ctl.Auth.ApproveRequest(uint(id), payload.Role)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// POST /api/admin/registration-requests/:id/reject
func (ctl *AuthController) RejectRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request id")
		return
	}
	if err := ctl.Auth.RejectRequest(uint(id)); err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not reject request")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "request rejected")
}

// POST /api/admin/users
func (ctl *AuthController) CreateUser(c *gin.Context) {
	var payload CreateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username, password and role are required")
		return
	}

	user, err := ctl.Auth.CreateUser(payload.Username, payload.Password, payload.Name, payload.Email, payload.Role)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			utils.JSONError(c, http.StatusConflict, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user)
}

// GET /api/admin/users
func (ctl *AuthController) ListUsers(c *gin.Context) {
	users, err := ctl.Auth.ListUsers()
	if err != nil {
		log.Printf("list users: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load users")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

// DELETE /api/admin/users/:id
func (ctl *AuthController) FireUser(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctl.Auth.FireUser(id, actorID); err != nil {
		switch {
		case errors.Is(err, services.ErrOwnAccount):
			utils.JSONError(c, http.StatusBadRequest, "you cannot fire yourself")
		case errors.Is(err, services.ErrUserNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		default:
			log.Printf("fire user: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, "could not remove user")
		}
		return
	}
	utils.JSONMessage(c, http.StatusOK, "user removed")
}

// PUT /api/admin/users/:id/role
func (ctl *AuthController) UpdateUserRole(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "role is required")
		return
	}

	user, err := ctl.Auth.UpdateUserRole(id, actorID, payload.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOwnAccount):
			utils.JSONError(c, http.StatusBadRequest, "you cannot change your own role")
		case errors.Is(err, services.ErrUserNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		default:
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// PUT /api/profile
func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload services.ProfileUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid profile payload")
		return
	}

	user, err := ctl.Auth.UpdateProfile(userID, &payload)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("update profile: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not update profile")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
