package models

import "time"

type User struct {
	BaseModel
	Slug            string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email           string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    *string `gorm:"type:varchar(255)"` // nil у аккаунтов только с Google
	Name            string  `gorm:"type:varchar(120)"`
	Phone           *string `gorm:"type:varchar(20)"`
	Avatar          *string `gorm:"type:varchar(2000)"`
	DateOfBirth     *time.Time
	SpiritualLevel  *string `gorm:"type:varchar(50)"`
	GoogleID        *string `gorm:"type:varchar(64);uniqueIndex"`
	IsActive        bool    `gorm:"not null"`
	EmailVerified   bool    `gorm:"not null;default:false"`
	EmailOTP        *string `gorm:"column:email_otp;type:varchar(6)"`
	EmailOTPExpires *time.Time
	OTPLastSentAt   *time.Time
	OTPAttempts     int `gorm:"not null;default:0"`

	Addresses     []Address      `gorm:"foreignKey:UserID"`
	Orders        []Order        `gorm:"foreignKey:UserID"`
	WishlistItems []WishlistItem `gorm:"foreignKey:UserID"`
}

// HasPassword - false для аккаунтов, созданных через Google
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasPendingOTP - emailOtp и emailOtpExpires выставляются только вместе
func (u *User) HasPendingOTP() bool {
	return u.EmailOTP != nil && u.EmailOTPExpires != nil
}

func (u *User) SignInMethod() SignInMethod {
	if u.GoogleID != nil && *u.GoogleID != "" {
		return SignInMethodGoogle
	}
	return SignInMethodManual
}

type AdminUser struct {
	BaseModel
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Name         string    `gorm:"type:varchar(120)"`
	Role         AdminRole `gorm:"type:varchar(20);not null;default:'admin'"`
	IsActive     bool      `gorm:"not null"`
	LastLoginAt  *time.Time
}
