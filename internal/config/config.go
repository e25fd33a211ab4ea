package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type QuotingServiceConfig struct {
	Port        string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
	InsurerCfg  InsurerConfig
	WidgetCfg   WidgetConfig
	AddressCfg  AddressConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

// InsurerConfig points at the external insurer backend that runs simulations
// and persists proposals. CredentialHeader names the header the opaque
// per-session credential travels in on authenticated calls.
type InsurerConfig struct {
	BaseURL            string
	CredentialHeader   string
	PreferredProductID int
}

// WidgetConfig carries the two embedded widget providers. Origins are exact
// scheme+host values; inbound frame messages from any other origin are
// dropped unconditionally.
type WidgetConfig struct {
	QuestionnaireOrigin string
	PaymentOrigin       string
	PaymentCNPJ         string
	ThemePrimary        string
	ThemeAccent         string
}

type AddressConfig struct {
	CEPBaseURL string
}

func New() *QuotingServiceConfig {
	// Local development convenience, absent in containers.
	_ = godotenv.Load()

	return &QuotingServiceConfig{
		Port: getEnvOrDefault("PORT", "8086"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "quoting"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		InsurerCfg: InsurerConfig{
			BaseURL:            getEnvOrDefault("INSURER_BASE_URL", "https://simulador.example.com.br/wp-json/mag/v1"),
			CredentialHeader:   getEnvOrDefault("INSURER_CREDENTIAL_HEADER", "X-WP-Nonce"),
			PreferredProductID: getEnvIntOrDefault("INSURER_PREFERRED_PRODUCT", 2096),
		},
		WidgetCfg: WidgetConfig{
			QuestionnaireOrigin: getEnvOrDefault("WIDGET_QUESTIONNAIRE_ORIGIN", "https://widgetshmg.mag.com.br"),
			PaymentOrigin:       getEnvOrDefault("WIDGET_PAYMENT_ORIGIN", "https://widgetshmg.mongeralaegon.com.br"),
			PaymentCNPJ:         getEnvOrDefault("WIDGET_PAYMENT_CNPJ", "33608308000173"),
			ThemePrimary:        getEnvOrDefault("WIDGET_THEME_PRIMARY", "0266e8"),
			ThemeAccent:         getEnvOrDefault("WIDGET_THEME_ACCENT", "efb700"),
		},
		AddressCfg: AddressConfig{
			CEPBaseURL: getEnvOrDefault("CEP_BASE_URL", "https://viacep.com.br/ws"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
