package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultEnv             = EnvProd
	defaultBaseURL         = "http://localhost:5000/api"
	defaultConfigDir       = ".vera"
	defaultDBName          = "vera.db"
	defaultVaultKeyName    = "vault.key"
	defaultConnectivityURL = "https://www.google.com/generate_204"
	defaultGeocoderURL     = "https://nominatim.openstreetmap.org"
	defaultIPLocatorURL    = "http://ip-api.com/json/"
)

type Config struct {
	Env               string  `mapstructure:"app_env" validate:"required|in:local,dev,prod"`
	BaseURL           string  `mapstructure:"base_url" validate:"required|fullUrl"`
	RequestTimeoutMS  int     `mapstructure:"request_timeout_ms" validate:"required|min:1"`
	ConfigDir         string  `mapstructure:"config_dir" validate:"required"`
	DBPath            string  `mapstructure:"db_path" validate:"required"`
	LocationInterval  int     `mapstructure:"location_interval_seconds" validate:"required|min:1"`
	LocationEnabled   bool    `mapstructure:"location_enabled"`
	StaticLatitude    float64 `mapstructure:"static_latitude"`
	StaticLongitude   float64 `mapstructure:"static_longitude"`
	GeocoderURL       string  `mapstructure:"geocoder_url" validate:"required|fullUrl"`
	GeocoderRPS       float64 `mapstructure:"geocoder_rps"`
	GeocodeCacheMB    int     `mapstructure:"geocode_cache_mb"`
	IPLocatorURL      string  `mapstructure:"ip_locator_url"`
	ConnectivityURL   string  `mapstructure:"connectivity_url" validate:"required|fullUrl"`
	RecorderCommand   string  `mapstructure:"recorder_command"`
	VaultKeyPath      string  `mapstructure:"vault_key_path"`
	MetricsFile       string  `mapstructure:"metrics_file"`
}

// MustLoad загружает конфигурацию клиента и паникует при ошибке
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env, переменные окружения и необязательный YAML-файл
func Load(configFile string) (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("BASE_URL", defaultBaseURL)
	v.SetDefault("REQUEST_TIMEOUT_MS", 30000)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("DB_PATH", "")
	v.SetDefault("LOCATION_INTERVAL_SECONDS", 180)
	v.SetDefault("LOCATION_ENABLED", true)
	v.SetDefault("STATIC_LATITUDE", 0.0)
	v.SetDefault("STATIC_LONGITUDE", 0.0)
	v.SetDefault("GEOCODER_URL", defaultGeocoderURL)
	v.SetDefault("GEOCODER_RPS", 1.0)
	v.SetDefault("GEOCODE_CACHE_MB", 4)
	v.SetDefault("IP_LOCATOR_URL", defaultIPLocatorURL)
	v.SetDefault("CONNECTIVITY_URL", defaultConnectivityURL)
	v.SetDefault("RECORDER_COMMAND", "")
	v.SetDefault("VAULT_KEY_PATH", "")
	v.SetDefault("METRICS_FILE", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	dbPath := v.GetString("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(configDir, defaultDBName)
	}
	vaultKeyPath := v.GetString("VAULT_KEY_PATH")
	if vaultKeyPath == "" {
		vaultKeyPath = filepath.Join(configDir, defaultVaultKeyName)
	}

	cfg := &Config{
		Env:              v.GetString("APP_ENV"),
		BaseURL:          strings.TrimRight(v.GetString("BASE_URL"), "/"),
		RequestTimeoutMS: v.GetInt("REQUEST_TIMEOUT_MS"),
		ConfigDir:        configDir,
		DBPath:           dbPath,
		LocationInterval: v.GetInt("LOCATION_INTERVAL_SECONDS"),
		LocationEnabled:  v.GetBool("LOCATION_ENABLED"),
		StaticLatitude:   v.GetFloat64("STATIC_LATITUDE"),
		StaticLongitude:  v.GetFloat64("STATIC_LONGITUDE"),
		GeocoderURL:      v.GetString("GEOCODER_URL"),
		GeocoderRPS:      v.GetFloat64("GEOCODER_RPS"),
		GeocodeCacheMB:   v.GetInt("GEOCODE_CACHE_MB"),
		IPLocatorURL:     v.GetString("IP_LOCATOR_URL"),
		ConnectivityURL:  v.GetString("CONNECTIVITY_URL"),
		RecorderCommand:  v.GetString("RECORDER_COMMAND"),
		VaultKeyPath:     vaultKeyPath,
		MetricsFile:      v.GetString("METRICS_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	vd := validate.Struct(c)
	if !vd.Validate() {
		return fmt.Errorf("некорректная конфигурация: %s", vd.Errors.One())
	}
	return nil
}

// RequestTimeout возвращает таймаут HTTP-запросов
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) TrackerInterval() time.Duration {
	return time.Duration(c.LocationInterval) * time.Second
}

// HasStaticLocation сообщает, заданы ли координаты вручную
func (c *Config) HasStaticLocation() bool {
	return c.StaticLatitude != 0 || c.StaticLongitude != 0
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}
