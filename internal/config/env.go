package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv - переменные окружения перекрывают YAML
func (c *Config) applyEnv() error {
	var errs []string
	fail := func(key string, err error) {
		errs = append(errs, fmt.Sprintf("%s: %v", key, err))
	}

	setString("HOST", &c.Server.Host)
	if err := setInt("PORT", &c.Server.Port); err != nil {
		fail("PORT", err)
	}
	setString("NODE_ENV", &c.Server.Env)
	setString("APP_ENV", &c.Server.Env)
	if v := os.Getenv("CLIENT_URL"); v != "" {
		c.Server.ClientURL = splitList(v)
	}

	setString("DB_DRIVER", &c.Database.Driver)
	setString("DATABASE_URL", &c.Database.DSN)

	setString("JWT_SECRET", &c.JWT.Secret)
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			fail("JWT_EXPIRES_IN", err)
		} else {
			c.JWT.TTL = d
		}
	}

	if v := os.Getenv("OTP_EXPIRY_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail("OTP_EXPIRY_MINUTES", fmt.Errorf("invalid value %q", v))
		} else {
			c.Auth.OTPExpiry = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("OTP_RESEND_COOLDOWN_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail("OTP_RESEND_COOLDOWN_SECONDS", fmt.Errorf("invalid value %q", v))
		} else {
			c.Auth.OTPResendCooldown = time.Duration(n) * time.Second
		}
	}
	setString("GOOGLE_CLIENT_ID", &c.Auth.GoogleClientID)

	setString("SMTP_HOST", &c.Email.SMTPHost)
	if err := setInt("SMTP_PORT", &c.Email.SMTPPort); err != nil {
		fail("SMTP_PORT", err)
	}
	setString("SMTP_USER", &c.Email.SMTPUsername)
	setString("SMTP_PASS", &c.Email.SMTPPassword)
	setString("FROM_EMAIL", &c.Email.FromEmail)
	setString("FROM_NAME", &c.Email.FromName)

	setString("RAZORPAY_KEY_ID", &c.Payment.KeyID)
	setString("RAZORPAY_KEY_SECRET", &c.Payment.KeySecret)

	setString("STORAGE_TYPE", &c.Storage.Type)
	setString("UPLOAD_DIR", &c.Storage.BasePath)
	setString("UPLOAD_BASE_URL", &c.Storage.BaseURL)
	setString("STORAGE_BUCKET", &c.Storage.Bucket)
	setString("STORAGE_REGION", &c.Storage.Region)
	setString("STORAGE_ACCESS_KEY", &c.Storage.AccessKey)
	setString("STORAGE_SECRET_KEY", &c.Storage.SecretKey)
	setString("STORAGE_ENDPOINT", &c.Storage.Endpoint)
	setString("STORAGE_ACCOUNT_ID", &c.Storage.AccountID)

	setString("REDIS_ADDR", &c.RateLimit.RedisAddr)
	setString("REDIS_PASSWORD", &c.RateLimit.RedisPassword)
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fail("RATE_LIMIT_REQUESTS", err)
		} else {
			c.RateLimit.Requests = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			fail("RATE_LIMIT_WINDOW", err)
		} else {
			c.RateLimit.Window = d
		}
	}

	setString("LOG_FILE", &c.Logging.File)
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fail("SNOWFLAKE_NODE", err)
		} else {
			c.Orders.SnowflakeNode = n
		}
	}

	setString("ADMIN_EMAIL", &c.Admin.Email)
	setString("ADMIN_PASSWORD", &c.Admin.Password)
	setString("ADMIN_NAME", &c.Admin.Name)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ParseDuration понимает Go-формат ("15m", "168h") и дни ("7d")
func ParseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
