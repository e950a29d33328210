package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Redis        RedisConfig
	LLM          LLMConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Contest      ContestConfig   `mapstructure:"contest"`
	Limits       LimitsConfig    `mapstructure:"limits"`
	Tracing      TracingConfig   `mapstructure:"tracing"`
	CORS         CORSConfig      `mapstructure:"cors"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	Admin        AdminConfig     `mapstructure:"admin"`
	ServerDomain string          `mapstructure:"server_domain"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port     string
	Mode     string
	TimeZone string `mapstructure:"time_zone"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LLMConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout_seconds"`
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

// ContestConfig 竞赛文档种子列表，启动迁移时写入 doc 表的 in_contest 标记
type ContestConfig struct {
	Documents []string `mapstructure:"documents"`
}

// LimitsConfig 通知阈值与计分参数，默认值与线上一致
type LimitsConfig struct {
	DailyTokenLimit int64         `mapstructure:"daily_token_limit"`
	TimeLimit       time.Duration `mapstructure:"time_limit_seconds"`
	PartialCredit   float64       `mapstructure:"partial_credit"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AdminConfig 默认管理员账户，首次迁移时创建
type AdminConfig struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("DOCQA")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// LLM 微服务
	viper.BindEnv("llm.base_url", "LLM_BASE_URL")

	// SMTP
	viper.BindEnv("smtp.host", "SMTP_HOST")
	viper.BindEnv("smtp.port", "SMTP_PORT")
	viper.BindEnv("smtp.user", "SMTP_USER")
	viper.BindEnv("smtp.password", "SMTP_PASSWORD")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Admin
	viper.BindEnv("admin.email", "ADMIN_EMAIL")
	viper.BindEnv("admin.password", "ADMIN_PASSWORD")

	viper.SetDefault("server.time_zone", "Asia/Yekaterinburg")
	viper.SetDefault("llm.timeout_seconds", 150)
	viper.SetDefault("limits.daily_token_limit", 63000)
	viper.SetDefault("limits.time_limit_seconds", 15)
	viper.SetDefault("limits.partial_credit", 0.5)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.LLM.Timeout = cfg.LLM.Timeout * time.Second
	cfg.Limits.TimeLimit = cfg.Limits.TimeLimit * time.Second

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
