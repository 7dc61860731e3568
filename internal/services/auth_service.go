package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/identity"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgDeactivated        = "Account is deactivated."
	msgOTPInvalidOrExpire = "Invalid or expired OTP. Please request a new one."
	msgOTPExpired         = "OTP has expired. Please request a new one."
	msgOTPMismatch        = "Invalid OTP."
	msgResetRequested     = "If an account exists, a reset code has been sent."
)

// AuthConfig - параметры OTP-потока
type AuthConfig struct {
	OTPExpiry      time.Duration
	ResendCooldown time.Duration
	// ExposeOTP - отдавать код в ответе (devOtp), только для development
	ExposeOTP bool
	// Now - источник времени; nil означает time.Now
	Now func() time.Time
}

type AuthService interface {
	// Покупатели
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.OTPSentResponse, error)
	SendOTP(ctx context.Context, db *gorm.DB, req *dto.SendOTPRequest) (*dto.OTPSentResponse, error)
	VerifyOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GoogleLogin(ctx context.Context, db *gorm.DB, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) (*dto.OTPSentResponse, error)
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) error
	Me(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)

	// Администраторы
	AdminLogin(ctx context.Context, db *gorm.DB, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error)
	AdminMe(ctx context.Context, db *gorm.DB, adminID string) (*dto.AdminResponse, error)
	SeedFirstAdmin(ctx context.Context, db *gorm.DB, email, password, name string) (bool, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	google   identity.Verifier
	mailer   *EmailService
	cfg      AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenManager,
	google identity.Verifier,
	mailer *EmailService,
	cfg AuthConfig,
) AuthService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OTPExpiry <= 0 {
		cfg.OTPExpiry = 10 * time.Minute
	}
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = 60 * time.Second
	}
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		google:   google,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// =======================
// Регистрация и OTP
// =======================

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.OTPSentResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	code, err := auth.GenerateNumericOTP(auth.OTPLength)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	now := s.cfg.Now()
	expires := now.Add(s.cfg.OTPExpiry)

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := s.userRepo.FindByEmail(tx, email)
	switch {
	case err == nil:
		if existing.EmailVerified {
			return nil, apperrors.ErrConflict(nil, "auth", "An account with this email already exists.")
		}
		// не подтвержден - перезаписываем данные и шлем новый код
		err = s.userRepo.UpdateFields(tx, existing.ID, map[string]interface{}{
			"password_hash":     hash,
			"name":              name,
			"phone":             optionalText(req.Phone),
			"email_otp":         code,
			"email_otp_expires": expires,
			"otp_last_sent_at":  now,
			"otp_attempts":      0,
		})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
	case errors.Is(err, repositories.ErrUserNotFound):
		user := &models.User{
			Slug:            randomSlug("user", 6),
			Email:           email,
			PasswordHash:    &hash,
			Name:            name,
			Phone:           optionalText(req.Phone),
			IsActive:        true,
			EmailVerified:   false,
			EmailOTP:        &code,
			EmailOTPExpires: &expires,
			OTPLastSentAt:   &now,
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, apperrors.ErrConflict(err, "auth", "An account with this email already exists.")
			}
			return nil, apperrors.InternalError(err)
		}
	default:
		return nil, apperrors.InternalError(err)
	}

	if err := commitTx(tx); err != nil {
		return nil, err
	}

	s.mailer.SendOTP(ctx, email, name, code)
	logger.CtxInfo(ctx, "Registration OTP issued", "email", email)

	return s.otpSent("OTP sent to your email. Please verify to complete registration.", email, code), nil
}

func (s *authService) SendOTP(ctx context.Context, db *gorm.DB, req *dto.SendOTPRequest) (*dto.OTPSentResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("auth", "No account found with this email.")
		}
		return nil, apperrors.InternalError(err)
	}
	if user.EmailVerified {
		return nil, apperrors.NewBadRequestError("Email is already verified.")
	}

	now := s.cfg.Now()
	if s.inCooldown(user, now) {
		return nil, apperrors.NewRateLimitError(s.cooldownMessage())
	}

	code, err := s.issueOTP(db, user, now)
	if err != nil {
		return nil, err
	}

	s.mailer.SendOTP(ctx, email, user.Name, code)
	return s.otpSent("OTP sent to your email.", "", code), nil
}

func (s *authService) VerifyOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.checkOTP(db, email, req.OTP)
	if err != nil {
		return nil, err
	}

	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"email_verified":    true,
		"email_otp":         nil,
		"email_otp_expires": nil,
		"otp_last_sent_at":  nil,
		"otp_attempts":      0,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user, err = s.userRepo.FindByID(db, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Email verified", "user_id", user.ID)
	return s.authResponse("Email verified. Account is active.", user)
}

// checkOTP - общие проверки verify-otp и reset-password.
// Просроченный код очищается, неверный увеличивает счетчик попыток.
func (s *authService) checkOTP(db *gorm.DB, email, otp string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewBadRequestError(msgOTPInvalidOrExpire)
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.HasPendingOTP() {
		return nil, apperrors.NewBadRequestError(msgOTPInvalidOrExpire)
	}

	if s.cfg.Now().After(*user.EmailOTPExpires) {
		err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
			"email_otp":         nil,
			"email_otp_expires": nil,
		})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.NewBadRequestError(msgOTPExpired)
	}

	otp = strings.TrimSpace(otp)
	if subtle.ConstantTimeCompare([]byte(*user.EmailOTP), []byte(otp)) != 1 {
		// счетчик ведется, но аккаунт не блокируется
		err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
			"otp_attempts": gorm.Expr("otp_attempts + ?", 1),
		})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.NewBadRequestError(msgOTPMismatch)
	}
	return user, nil
}

func (s *authService) inCooldown(user *models.User, now time.Time) bool {
	return user.OTPLastSentAt != nil && now.Sub(*user.OTPLastSentAt) < s.cfg.ResendCooldown
}

func (s *authService) cooldownMessage() string {
	return fmt.Sprintf("Please wait %d seconds before requesting a new OTP.", int(s.cfg.ResendCooldown/time.Second))
}

// issueOTP - новый код заменяет предыдущий
func (s *authService) issueOTP(db *gorm.DB, user *models.User, now time.Time) (string, error) {
	code, err := auth.GenerateNumericOTP(auth.OTPLength)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"email_otp":         code,
		"email_otp_expires": now.Add(s.cfg.OTPExpiry),
		"otp_last_sent_at":  now,
	})
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return code, nil
}

func (s *authService) otpSent(message, email, code string) *dto.OTPSentResponse {
	resp := &dto.OTPSentResponse{Message: message, Email: email}
	if s.cfg.ExposeOTP {
		resp.DevOTP = code
	}
	return resp
}

// =======================
// Вход
// =======================

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.HasPassword() {
		return nil, apperrors.NewUnauthorizedError("This account uses a different sign-in method.")
	}
	if !user.IsActive {
		return nil, apperrors.NewForbiddenError(msgDeactivated)
	}
	if !user.EmailVerified {
		return nil, apperrors.NewForbiddenError("Please verify your email first. Check your inbox for the OTP.")
	}
	if !auth.CheckPasswordHash(req.Password, *user.PasswordHash) {
		logger.CtxWarn(ctx, "Failed login attempt", "email", email)
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	return s.authResponse("Signed in successfully.", user)
}

func (s *authService) GoogleLogin(ctx context.Context, db *gorm.DB, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, apperrors.NewBadRequestError("Google token is required.")
	}
	if s.google == nil {
		return nil, apperrors.NewServiceUnavailableError("auth", "Google sign-in is not configured.")
	}

	profile, err := s.google.Verify(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotConfigured):
			return nil, apperrors.NewServiceUnavailableError("auth", "Google sign-in is not configured.")
		case errors.Is(err, identity.ErrInvalidToken):
			logger.CtxWarn(ctx, "Google token rejected", "error", err.Error())
			return nil, apperrors.NewUnauthorizedError("Failed to get user info from Google.")
		default:
			return nil, apperrors.ExternalServiceError(err, "auth", "Failed to get user info from Google.")
		}
	}

	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, apperrors.NewBadRequestError("Google account has no email.")
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByGoogleIDOrEmail(tx, profile.Subject, email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, apperrors.NewForbiddenError(msgDeactivated)
		}
		if user.GoogleID == nil || *user.GoogleID == "" {
			// первая привязка Google к существующему аккаунту
			fields := map[string]interface{}{
				"google_id":      profile.Subject,
				"email_verified": true,
			}
			if profile.Picture != "" {
				fields["avatar"] = profile.Picture
			}
			if err := s.userRepo.UpdateFields(tx, user.ID, fields); err != nil {
				return nil, apperrors.InternalError(err)
			}
			if user, err = s.userRepo.FindByID(tx, user.ID); err != nil {
				return nil, apperrors.InternalError(err)
			}
		}
	case errors.Is(err, repositories.ErrUserNotFound):
		user = &models.User{
			Slug:          randomSlug("user", 6),
			Email:         email,
			Name:          strings.TrimSpace(profile.Name),
			Avatar:        optionalText(&profile.Picture),
			GoogleID:      &profile.Subject,
			IsActive:      true,
			EmailVerified: true,
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			return nil, apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "User created via Google", "user_id", user.ID)
	default:
		return nil, apperrors.InternalError(err)
	}

	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return s.authResponse("Signed in with Google.", user)
}

// =======================
// Сброс пароля
// =======================

func (s *authService) ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) (*dto.OTPSentResponse, error) {
	email := normalizeEmail(req.Email)
	resp := &dto.OTPSentResponse{Message: msgResetRequested}

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return resp, nil
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.EmailVerified || !user.IsActive {
		return resp, nil
	}

	now := s.cfg.Now()
	if s.inCooldown(user, now) {
		logger.CtxInfo(ctx, "Password reset requested during cooldown", "user_id", user.ID)
		return resp, nil
	}

	code, err := s.issueOTP(db, user, now)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{"otp_attempts": 0}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.mailer.SendPasswordReset(ctx, email, user.Name, code)
	if s.cfg.ExposeOTP {
		resp.DevOTP = code
	}
	return resp, nil
}

func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)

	user, err := s.checkOTP(db, email, req.OTP)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}
	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"password_hash":     hash,
		"email_otp":         nil,
		"email_otp_expires": nil,
		"otp_last_sent_at":  nil,
		"otp_attempts":      0,
	})
	if err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Password reset", "user_id", user.ID)
	return nil
}

func (s *authService) Me(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return toUserResponse(user), nil
}

func (s *authService) authResponse(message string, user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Message:     message,
		User:        toUserResponse(user),
		AccessToken: token,
	}, nil
}

// =======================
// Администраторы
// =======================

func (s *authService) AdminLogin(ctx context.Context, db *gorm.DB, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error) {
	email := normalizeEmail(req.Email)

	admin, err := s.userRepo.FindAdminByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, apperrors.InternalError(err)
	}
	if !admin.IsActive {
		return nil, apperrors.NewForbiddenError(msgDeactivated)
	}
	if !auth.CheckPasswordHash(req.Password, admin.PasswordHash) {
		logger.CtxWarn(ctx, "Failed admin login attempt", "email", email)
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	if err := s.userRepo.TouchAdminLogin(db, admin.ID); err != nil {
		logger.CtxWithError(ctx, "Failed to update admin last login", err, "admin_id", admin.ID)
	}

	token, err := s.tokens.IssueAdminToken(admin.ID, admin.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AdminAuthResponse{
		Message:     "Admin signed in successfully.",
		Admin:       toAdminResponse(admin),
		AccessToken: token,
	}, nil
}

func (s *authService) AdminMe(ctx context.Context, db *gorm.DB, adminID string) (*dto.AdminResponse, error) {
	admin, err := s.userRepo.FindAdminByID(db, adminID)
	if err != nil && !errors.Is(err, repositories.ErrAdminNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if admin == nil || !admin.IsActive {
		return nil, apperrors.NewNotFoundError("admin", "Admin not found")
	}
	return toAdminResponse(admin), nil
}

// SeedFirstAdmin создает первого администратора, если их еще нет
func (s *authService) SeedFirstAdmin(ctx context.Context, db *gorm.DB, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	tx, err := beginTx(db)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	count, err := s.userRepo.CountAdmins(tx)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "Admin"
	}
	admin := &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.AdminRoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.CreateAdmin(tx, admin); err != nil {
		return false, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return false, err
	}

	logger.CtxInfo(ctx, "First admin created", "email", email)
	return true, nil
}
