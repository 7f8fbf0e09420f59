package services

import (
	"context"
	"fmt"
	"time"

	"ambudispatch/internal/utils"
	"ambudispatch/pkg/cache"
	"ambudispatch/pkg/logger"
	"ambudispatch/pkg/sms"
)

// OTPResult reports the outcome of an OTP send or verify attempt. A failed
// attempt is data, not an error: callers decide whether to advance state.
type OTPResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OTPService interface {
	Send(ctx context.Context, phone, purpose string) (*OTPResult, error)
	Verify(ctx context.Context, phone, code, purpose string) (*OTPResult, error)
}

// OTPStore is the slice of the Redis cache the OTP flow needs.
type OTPStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type otpRecord struct {
	Code string `json:"code"`
}

type otpService struct {
	store       OTPStore
	smsProvider sms.SMSProvider
	appName     string
	codeLength  int
	expiry      time.Duration
	smsEnabled  bool
	development bool
	logger      *logger.Logger
}

func NewOTPService(
	store OTPStore,
	smsProvider sms.SMSProvider,
	appName string,
	codeLength int,
	expiry time.Duration,
	smsEnabled bool,
	development bool,
	log *logger.Logger,
) OTPService {
	if codeLength <= 0 {
		codeLength = utils.OTPLength
	}
	if expiry <= 0 {
		expiry = utils.OTPExpiry
	}

	return &otpService{
		store:       store,
		smsProvider: smsProvider,
		appName:     appName,
		codeLength:  codeLength,
		expiry:      expiry,
		smsEnabled:  smsEnabled,
		development: development,
		logger:      log,
	}
}

// otpKey builds the namespaced store key, e.g. "otp:sos_abc123:+911234567890".
// Purpose namespacing keeps a code sent for one trip from verifying another.
func otpKey(purpose, phone string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, phone)
}

func (s *otpService) Send(ctx context.Context, phone, purpose string) (*OTPResult, error) {
	code := utils.GenerateRandomNumericString(s.codeLength)

	key := otpKey(purpose, phone)
	if err := s.store.Set(ctx, key, otpRecord{Code: code}, s.expiry); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	// Never log codes outside development.
	if s.development {
		s.logger.WithFields(map[string]interface{}{
			"phone":   phone,
			"purpose": purpose,
			"code":    code,
		}).Info("OTP generated")
	}

	if !s.smsEnabled {
		s.logger.Warn("SMS disabled, OTP stored only")
		return &OTPResult{Success: true, Message: "OTP generated (SMS disabled)"}, nil
	}

	message := fmt.Sprintf("[%s] Your verification code is: %s. Valid for %d minutes.",
		s.appName, code, int(s.expiry.Minutes()))

	_, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
		To:      phone,
		Message: message,
		Type:    "otp",
	})
	if err != nil {
		s.logger.WithError(err).Errorf("Failed to send OTP to %s", phone)
		return &OTPResult{Success: false, Message: "Failed to send OTP: " + err.Error()}, nil
	}

	return &OTPResult{Success: true, Message: "OTP sent successfully"}, nil
}

func (s *otpService) Verify(ctx context.Context, phone, code, purpose string) (*OTPResult, error) {
	key := otpKey(purpose, phone)

	var record otpRecord
	err := s.store.Get(ctx, key, &record)
	if err != nil {
		if cache.IsMiss(err) {
			return &OTPResult{Success: false, Message: "No pending OTP found or it has expired."}, nil
		}
		return nil, fmt.Errorf("failed to read OTP: %w", err)
	}

	if record.Code != code {
		return &OTPResult{Success: false, Message: "Invalid OTP code."}, nil
	}

	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.WithError(err).Warn("Failed to delete verified OTP key")
	}

	return &OTPResult{Success: true, Message: "OTP verified successfully"}, nil
}
