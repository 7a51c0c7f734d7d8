// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
	Backup    BackupConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	LogLevel       string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// AnalyticsConfig carries the tunable thresholds of the analytics engines.
// Defaults match the published methodology; deployments rarely override them.
type AnalyticsConfig struct {
	ABCThresholdA            float64 // cumulative usage share covered by grade A
	ABCThresholdB            float64 // additional share covered by grade B
	CostRateWarningThreshold float64 // menu cost ratio (%) flagged as high
	LowContributionKRW       int64   // per-unit contribution below this is "low"
	ReorderDaysForAvg        int     // trailing window for average daily usage
	ReorderForecastDays      int     // days of demand an order should cover
	TurnoverPeriodDays       int     // window for turnover analysis
	StrategyWindowDays       int     // recent/prior window for drop detection
	MissionBaselineDays      int     // days before start used as mission baseline
	HealthRiskSafe           float64 // axis score at or above this is safe
	HealthRiskWarning        float64 // axis score at or above this is warning
}

type BackupConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "storecoach")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 300)
		viper.SetDefault("ABC_THRESHOLD_A", 70.0)
		viper.SetDefault("ABC_THRESHOLD_B", 20.0)
		viper.SetDefault("COST_RATE_WARNING_THRESHOLD", 35.0)
		viper.SetDefault("LOW_CONTRIBUTION_KRW", 5000)
		viper.SetDefault("REORDER_DAYS_FOR_AVG", 7)
		viper.SetDefault("REORDER_FORECAST_DAYS", 3)
		viper.SetDefault("TURNOVER_PERIOD_DAYS", 30)
		viper.SetDefault("STRATEGY_WINDOW_DAYS", 14)
		viper.SetDefault("MISSION_BASELINE_DAYS", 7)
		viper.SetDefault("HEALTH_RISK_SAFE", 75.0)
		viper.SetDefault("HEALTH_RISK_WARNING", 45.0)
		viper.SetDefault("BACKUP_ENABLED", false)
		viper.SetDefault("BACKUP_ENDPOINT", "")
		viper.SetDefault("BACKUP_ACCESS_KEY", "")
		viper.SetDefault("BACKUP_SECRET_KEY", "")
		viper.SetDefault("BACKUP_BUCKET", "storecoach-backups")
		viper.SetDefault("BACKUP_USE_SSL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				LogLevel:       viper.GetString("LOG_LEVEL"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Analytics: AnalyticsConfig{
				ABCThresholdA:            viper.GetFloat64("ABC_THRESHOLD_A"),
				ABCThresholdB:            viper.GetFloat64("ABC_THRESHOLD_B"),
				CostRateWarningThreshold: viper.GetFloat64("COST_RATE_WARNING_THRESHOLD"),
				LowContributionKRW:       viper.GetInt64("LOW_CONTRIBUTION_KRW"),
				ReorderDaysForAvg:        viper.GetInt("REORDER_DAYS_FOR_AVG"),
				ReorderForecastDays:      viper.GetInt("REORDER_FORECAST_DAYS"),
				TurnoverPeriodDays:       viper.GetInt("TURNOVER_PERIOD_DAYS"),
				StrategyWindowDays:       viper.GetInt("STRATEGY_WINDOW_DAYS"),
				MissionBaselineDays:      viper.GetInt("MISSION_BASELINE_DAYS"),
				HealthRiskSafe:           viper.GetFloat64("HEALTH_RISK_SAFE"),
				HealthRiskWarning:        viper.GetFloat64("HEALTH_RISK_WARNING"),
			},
			Backup: BackupConfig{
				Enabled:   viper.GetBool("BACKUP_ENABLED"),
				Endpoint:  viper.GetString("BACKUP_ENDPOINT"),
				AccessKey: viper.GetString("BACKUP_ACCESS_KEY"),
				SecretKey: viper.GetString("BACKUP_SECRET_KEY"),
				Bucket:    viper.GetString("BACKUP_BUCKET"),
				UseSSL:    viper.GetBool("BACKUP_USE_SSL"),
			},
		}
	})

	return instance
}
