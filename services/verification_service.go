// services/verification_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aparthotel-backend/utils"

	"github.com/go-redis/redis/v8"
)

var (
	ErrCodeExpired  = errors.New("verification code expired or not requested")
	ErrCodeMismatch = errors.New("verification code does not match")
)

const (
	codeLength = 6
	codeTTL    = 10 * time.Minute
)

// Mailer delivers a verification code to an address. The default sends
// over SMTP and falls back to a log line when SMTP is not configured.
type Mailer func(recipientEmail, code string) error

// VerificationService hands out short-lived email codes backed by redis,
// one active code per address.
type VerificationService struct {
	Redis *redis.Client
	Send  Mailer
}

func NewVerificationService(rdb *redis.Client) *VerificationService {
	return &VerificationService{Redis: rdb, Send: utils.SendVerificationEmail}
}

func codeKey(email string) string {
	return "verify:" + email
}

// RequestCode generates a fresh code, stores it with a ten minute expiry
// and emails it. A repeated request overwrites the previous code.
func (s *VerificationService) RequestCode(ctx context.Context, email string) error {
	code, err := utils.GenerateVerificationCode(codeLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.Redis.Set(ctx, codeKey(email), code, codeTTL).Err(); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	return s.Send(email, code)
}

// VerifyCode checks the submitted code and consumes it on success.
func (s *VerificationService) VerifyCode(ctx context.Context, email, code string) error {
	stored, err := s.Redis.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("load code: %w", err)
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return s.Redis.Del(ctx, codeKey(email)).Err()
}
