package cmd

type Config struct {
	HTTPPort        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSslMode       string
	RegistryBaseURL string
	RegistryAPIKey  string
	WhatsAppBaseURL string
	WhatsAppToken   string
	ConfirmationTTL string
}
