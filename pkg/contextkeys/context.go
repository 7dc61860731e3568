package contextkeys

// Кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - *gorm.DB в gin/context
	DBContextKey = contextKey("db")
	// UserIDKey - id покупателя из access-токена
	UserIDKey = contextKey("user_id")
	// UserEmailKey - email из токена
	UserEmailKey = contextKey("user_email")
	// AdminIDKey - id администратора из admin-токена
	AdminIDKey = contextKey("admin_id")
)
