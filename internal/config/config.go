package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"telegram-order-notifier/internal/domain/model"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string  `yaml:"token"`
	Mode        string  `yaml:"mode"` // webhook | polling
	WebhookPath string  `yaml:"webhook_path"`
	Workers     int     `yaml:"workers"` // update workers
	AdminIDs    []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StateTTL time.Duration `yaml:"state_ttl"` // armed-prompt state lifetime
}

type TriggerConfig struct {
	InternalAPIKey string `yaml:"internal_api_key"`
}

type AIConfig struct {
	OpenAIKey string `yaml:"openai_key"`
	Model     string `yaml:"model"`
}

type LocationConfig struct {
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	VideoURL     string  `yaml:"video_url"`
	ScheduleText string  `yaml:"schedule_text"`
	ContactPhone string  `yaml:"contact_phone"`
	MapsURL      string  `yaml:"maps_url"`
}

type ContactConfig struct {
	SupportUsername string `yaml:"support_username"`
	InstagramURL    string `yaml:"instagram_url"`
}

type RateLimitConfig struct {
	PerChatPerMinute int `yaml:"per_chat_per_minute"`
}

type FeedbackConfig struct {
	InitialDelay      time.Duration `yaml:"initial_delay"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	MaxPickupAttempts int           `yaml:"max_pickup_attempts"`
}

type Config struct {
	Bot       BotConfig          `yaml:"bot"`
	Log       LogConfig          `yaml:"log"`
	Server    ServerConfig       `yaml:"server"`
	Database  DatabaseConfig     `yaml:"database"`
	Redis     RedisConfig        `yaml:"redis"`
	Trigger   TriggerConfig      `yaml:"trigger"`
	AI        AIConfig           `yaml:"ai"`
	Pricing   model.PricingModel `yaml:"pricing"`
	Location  LocationConfig     `yaml:"location"`
	Contact   ContactConfig      `yaml:"contact"`
	RateLimit RateLimitConfig    `yaml:"rate_limit"`
	Feedback  FeedbackConfig     `yaml:"feedback"`
	Locale    string             `yaml:"locale"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config. ${VAR} references are
// expanded from the environment before parsing so secrets can stay out of
// the file.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	cfg.Pricing = model.DefaultPricingModel()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "webhook"
	}
	if cfg.Bot.WebhookPath == "" {
		cfg.Bot.WebhookPath = "/webhook/telegram"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.StateTTL <= 0 {
		cfg.Redis.StateTTL = 10 * time.Minute
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.Contact.SupportUsername == "" {
		cfg.Contact.SupportUsername = "@SupportHero"
	}
	if cfg.RateLimit.PerChatPerMinute <= 0 {
		cfg.RateLimit.PerChatPerMinute = 20
	}
	if cfg.Feedback.InitialDelay <= 0 {
		cfg.Feedback.InitialDelay = 48 * time.Hour
	}
	if cfg.Feedback.RetryDelay <= 0 {
		cfg.Feedback.RetryDelay = 36 * time.Hour
	}
	if cfg.Feedback.SweepInterval <= 0 {
		cfg.Feedback.SweepInterval = 15 * time.Minute
	}
	if cfg.Feedback.MaxPickupAttempts <= 0 {
		cfg.Feedback.MaxPickupAttempts = 3
	}
	if cfg.Locale == "" {
		cfg.Locale = "uk"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Trigger.InternalAPIKey == "" {
		return nil, errors.New("trigger.internal_api_key is required")
	}
	if cfg.Location.ScheduleText == "" {
		return nil, errors.New("location.schedule_text is required")
	}
	if cfg.Location.ContactPhone == "" {
		return nil, errors.New("location.contact_phone is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
