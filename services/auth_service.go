// services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aparthotel-backend/models"
	"aparthotel-backend/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username is already taken")
	ErrRequestNotFound    = errors.New("registration request not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrOwnAccount         = errors.New("cannot do this to your own account")
)

// AuthService issues JWTs for staff logins and shepherds self-registration
// requests through owner approval.
type AuthService struct {
	DB        *gorm.DB
	JWTSecret []byte
	TokenTTL  time.Duration
	Now       func() time.Time
}

func NewAuthService(db *gorm.DB) *AuthService {
	secret := utils.EnvOrDefault("JWT_SECRET", "change-me-in-production")
	return &AuthService{
		DB:        db,
		JWTSecret: []byte(secret),
		TokenTTL:  72 * time.Hour,
		Now:       time.Now,
	}
}

// Login checks the password and returns a signed token plus the user.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := s.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.Role,
		"name": user.DisplayName(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.JWTSecret)
}

// ParseToken validates a bearer token and returns the user id and role.
func (s *AuthService) ParseToken(tokenStr string) (uint, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil {
		return 0, "", errors.New("invalid token subject")
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}

// Register files a registration request for owner review. The password is
// hashed before it is stored.
func (s *AuthService) Register(username, password, name, email string) (*models.RegistrationRequest, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}
	if err := s.DB.Model(&models.RegistrationRequest{}).
		Where("username = ? AND status = ?", username, models.RequestPending).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("a request for this username is already pending")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	req := models.RegistrationRequest{
		Username: username,
		Name:     name,
		Email:    email,
		Password: string(hash),
		Status:   models.RequestPending,
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *AuthService) PendingRequests() ([]models.RegistrationRequest, error) {
	var requests []models.RegistrationRequest
	err := s.DB.Where("status = ?", models.RequestPending).
		Order("created_at").
		Find(&requests).Error
	return requests, err
}

// ApproveRequest turns a pending registration into a real account with the
// given role.
func (s *AuthService) ApproveRequest(id uint, role string) (*models.User, error) {
	if role != models.RoleManager && role != models.RoleEmployee {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	var user *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var req models.RegistrationRequest
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if req.Status != models.RequestPending {
			return fmt.Errorf("request already %s", req.Status)
		}

		user = &models.User{
			Username: req.Username,
			Password: req.Password,
			Name:     req.Name,
			Email:    req.Email,
			Role:     role,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		req.Status = models.RequestApproved
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) RejectRequest(id uint) error {
	res := s.DB.Model(&models.RegistrationRequest{}).
		Where("id = ? AND status = ?", id, models.RequestPending).
		Update("status", models.RequestRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// CreateUser adds a staff account directly, owner only.
func (s *AuthService) CreateUser(username, password, name, email, role string) (*models.User, error) {
	if !isStaffRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username: username,
		Password: string(hash),
		Name:     name,
		Email:    email,
		Role:     role,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every staff account for the employees screen.
func (s *AuthService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FireUser removes a staff account. The caller cannot fire themselves.
func (s *AuthService) FireUser(id, actorID uint) error {
	if id == actorID {
		return ErrOwnAccount
	}
	res := s.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUserRole changes a staff member's role. The caller cannot
// change their own role.
func (s *AuthService) UpdateUserRole(id, actorID uint, role string) (*models.User, error) {
	if id == actorID {
		return nil, ErrOwnAccount
	}
	if !isStaffRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Role = role
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the fields a user can edit on their own
// account. Empty fields are left untouched.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Password string `json:"password"`
}

// UpdateProfile edits the caller's own account.
func (s *AuthService) UpdateProfile(id uint, input *ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Photo != "" {
		user.Photo = input.Photo
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func isStaffRole(role string) bool {
	switch role {
	case models.RoleOwner, models.RoleManager, models.RoleEmployee:
		return true
	}
	return false
}
