package email

// Message - готовое к отправке письмо
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Config - параметры SMTP; пустой Host означает режим "только лог"
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c Config) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}
