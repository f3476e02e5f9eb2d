package email

// SMTPConfig - UseSSL включает implicit TLS (порт 465), иначе STARTTLS
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseSSL    bool
}
