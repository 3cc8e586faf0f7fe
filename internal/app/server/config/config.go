package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Auth   auth
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	AttachmentDir string `env:"ATTACHMENT_DIR"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

type auth struct {
	TokenTTLHours int `env:"TOKEN_TTL_HOURS"`
}

// MustLoad читает конфигурацию из .env и переменных окружения.
// Отсутствие .env не является ошибкой: в контейнере конфигурация
// приходит только через окружение.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("run_address", "localhost:8080")
	viper.SetDefault("migrations_path", "migrations")
	viper.SetDefault("attachment_dir", "attachments")
	viper.SetDefault("public_base_url", "http://localhost:8080")
	viper.SetDefault("token_ttl_hours", 720)

	cfg := Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{
			RunAddress:    viper.GetString("run_address"),
			AttachmentDir: viper.GetString("attachment_dir"),
			PublicBaseURL: viper.GetString("public_base_url"),
		},
		Auth: auth{
			TokenTTLHours: viper.GetInt("token_ttl_hours"),
		},
	}

	if cfg.DB.DatabaseURI == "" {
		log.Fatalln("DATABASE_URI is required")
	}

	return &cfg
}
