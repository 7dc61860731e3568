package dto

// RegisterRequest - регистрация покупателя
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest - token проверяется в сервисе, чтобы вернуть понятное сообщение
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPSentResponse - ответ register / send-otp; DevOTP только в development
type OTPSentResponse struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	DevOTP  string `json:"devOtp,omitempty"`
}

type AuthResponse struct {
	Message     string        `json:"message"`
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	Slug           string  `json:"slug"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Phone          *string `json:"phone"`
	Avatar         *string `json:"avatar"`
	MemberSince    string  `json:"memberSince"`
	SpiritualLevel *string `json:"spiritualLevel"`
	EmailVerified  bool    `json:"emailVerified"`
	DateOfBirth    *string `json:"dateOfBirth"`
}

type AdminResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AdminAuthResponse struct {
	Message     string         `json:"message"`
	Admin       *AdminResponse `json:"admin"`
	AccessToken string         `json:"accessToken"`
}
