package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath          = ".env"
	defaultSecretKey = "SecRetKey"

	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env            string        `validate:"required|in:local,dev,prod"`
	RunAddress     string        `validate:"required"`
	DatabaseURI    string        // пусто: данные хранятся в памяти
	JWTSecret      string        `validate:"required"`
	TokenTTL       time.Duration `validate:"required"`
	VoiceThreshold float64       `validate:"required|gt:0|max:1"`
	MaxUploadMB    int64         `validate:"required|min:1"`
}

// MustLoad загружает конфигурацию dev-сервера и паникует при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("RUN_ADDRESS", ":5000")
	v.SetDefault("DATABASE_URI", "")
	v.SetDefault("JWT_SECRET", defaultSecretKey)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("VOICE_THRESHOLD", 0.8)
	v.SetDefault("MAX_UPLOAD_MB", 20)

	cfg := &Config{
		Env:            v.GetString("APP_ENV"),
		RunAddress:     v.GetString("RUN_ADDRESS"),
		DatabaseURI:    v.GetString("DATABASE_URI"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		VoiceThreshold: v.GetFloat64("VOICE_THRESHOLD"),
		MaxUploadMB:    v.GetInt64("MAX_UPLOAD_MB"),
	}

	vd := validate.Struct(cfg)
	if !vd.Validate() {
		return nil, fmt.Errorf("некорректная конфигурация: %s", vd.Errors.One())
	}
	return cfg, nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
