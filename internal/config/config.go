package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreDriverParquet  = "parquet"
	StoreDriverPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("configuração inválida")

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Store     Store     `mapstructure:",squash"`
	Ingestion Ingestion `mapstructure:",squash"`
	InboxSync InboxSync `mapstructure:",squash"`
	Report    Report    `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	CORS      CORS      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

// Store escolhe onde os datasets de período ficam gravados
type Store struct {
	Driver  string `mapstructure:"store_driver"`
	RootDir string `mapstructure:"store_root_dir"`
}

type Ingestion struct {
	Encodings []string       `mapstructure:"ingestion_encodings"`
	Delimiter string         `mapstructure:"ingestion_delimiter"`
	Timezone  string         `mapstructure:"ingestion_timezone"`
	Location  *time.Location `mapstructure:"-"`
}

// DelimiterRune devolve o separador de colunas já validado por NewConfig
func (i Ingestion) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(i.Delimiter)
	return r
}

type InboxSync struct {
	Dir          string `mapstructure:"inbox_dir"`
	CronSchedule string `mapstructure:"inbox_sync_cron"`
	Enabled      bool   `mapstructure:"inbox_sync_enabled"`
}

type Report struct {
	TopN                   int      `mapstructure:"report_top_n"`
	ExcludedPaymentMethods []string `mapstructure:"report_excluded_payment_methods"`
}

// Auth.Secret vazio desliga a validação do bearer token
type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("STORE_DRIVER", StoreDriverParquet)
	viper.SetDefault("STORE_ROOT_DIR", "data/periods")

	viper.SetDefault("INGESTION_ENCODINGS", "utf-8,windows-1252,iso-8859-1")
	viper.SetDefault("INGESTION_DELIMITER", ";")
	viper.SetDefault("INGESTION_TIMEZONE", "America/Sao_Paulo")

	viper.SetDefault("INBOX_DIR", "data/inbox")
	viper.SetDefault("INBOX_SYNC_CRON", "*/15 * * * *") // a cada 15 minutos
	viper.SetDefault("INBOX_SYNC_ENABLED", false)

	viper.SetDefault("REPORT_TOP_N", 10)
	viper.SetDefault("REPORT_EXCLUDED_PAYMENT_METHODS", "")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// normalize limpa listas vindas do ambiente e valida o que não tem valor padrão seguro
func (c *Config) normalize() error {
	c.Ingestion.Encodings = cleanList(c.Ingestion.Encodings)
	c.Report.ExcludedPaymentMethods = cleanList(c.Report.ExcludedPaymentMethods)
	c.CORS.AllowedOrigins = cleanList(c.CORS.AllowedOrigins)

	for i, method := range c.Report.ExcludedPaymentMethods {
		c.Report.ExcludedPaymentMethods[i] = strings.ToUpper(method)
	}

	if utf8.RuneCountInString(c.Ingestion.Delimiter) != 1 {
		return fmt.Errorf("%w: INGESTION_DELIMITER deve ter um caractere, recebido %q", ErrInvalidConfig, c.Ingestion.Delimiter)
	}

	location, err := time.LoadLocation(c.Ingestion.Timezone)
	if err != nil {
		return fmt.Errorf("%w: INGESTION_TIMEZONE %q: %w", ErrInvalidConfig, c.Ingestion.Timezone, err)
	}
	c.Ingestion.Location = location

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver != StoreDriverParquet && c.Store.Driver != StoreDriverPostgres {
		return fmt.Errorf("%w: STORE_DRIVER %q não suportado", ErrInvalidConfig, c.Store.Driver)
	}

	if c.Report.TopN <= 0 {
		return fmt.Errorf("%w: REPORT_TOP_N deve ser positivo", ErrInvalidConfig)
	}

	return nil
}

func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return cleaned
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
