package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

// Metricool holds the scheduling provider endpoint and the account context
// used when neither the request nor the operator settings name one.
type Metricool struct {
	BaseURL        string
	CredentialName string
	WorkspaceID    string
	UserID         string
	BlogID         string
	Timeout        time.Duration
}

type AI struct {
	BaseURL        string
	Model          string
	CredentialName string
	Timeout        time.Duration
}

type Research struct {
	HistoryLimit  int
	PruneSchedule string
}

// RateLimit caps requests per operator per minute. Zero disables a limit.
type RateLimit struct {
	ContentPerMinute int
	PublishPerMinute int
}

type Logging struct {
	Level  string
	Format string // "json" or "text"
}

type Config struct {
	Port        string
	PostgresURI string
	RedisURI    string
	FrontendURL string
	SecretKey   string
	CookieName  string
	R2          R2
	Metricool   Metricool
	AI          AI
	Research    Research
	RateLimit   RateLimit
	Logging     Logging
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("POSTGRES_URI", "")
	v.SetDefault("REDIS_URI", "localhost:6379")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("COOKIE_NAME", "postgate_session")

	v.SetDefault("R2_ACCOUNT_ID", "")
	v.SetDefault("R2_ACCESS_KEY", "")
	v.SetDefault("R2_SECRET_KEY", "")
	v.SetDefault("R2_BUCKET_NAME", "")
	v.SetDefault("R2_PUBLIC_URL", "")

	v.SetDefault("METRICOOL_BASE_URL", "https://app.metricool.com/api")
	v.SetDefault("METRICOOL_CREDENTIAL_NAME", "metricool")
	v.SetDefault("METRICOOL_WORKSPACE_ID", "")
	v.SetDefault("METRICOOL_USER_ID", "")
	v.SetDefault("METRICOOL_BLOG_ID", "")
	v.SetDefault("METRICOOL_TIMEOUT", "30s")

	v.SetDefault("AI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_CREDENTIAL_NAME", "openai")
	v.SetDefault("AI_TIMEOUT", "60s")

	v.SetDefault("RESEARCH_HISTORY_LIMIT", 20)
	v.SetDefault("RESEARCH_PRUNE_SCHEDULE", "@every 00h10m00s")

	v.SetDefault("RATE_LIMIT_CONTENT", 20)
	v.SetDefault("RATE_LIMIT_PUBLISH", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig reads configuration from the environment. Variables loaded
// from a .env file by the caller are picked up the same way.
func LoadConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		Port:        v.GetString("PORT"),
		PostgresURI: v.GetString("POSTGRES_URI"),
		RedisURI:    v.GetString("REDIS_URI"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		SecretKey:   v.GetString("SECRET_KEY"),
		CookieName:  v.GetString("COOKIE_NAME"),
		R2: R2{
			AccountID:  v.GetString("R2_ACCOUNT_ID"),
			AccessKey:  v.GetString("R2_ACCESS_KEY"),
			SecretKey:  v.GetString("R2_SECRET_KEY"),
			BucketName: v.GetString("R2_BUCKET_NAME"),
			PublicURL:  strings.TrimRight(v.GetString("R2_PUBLIC_URL"), "/"),
		},
		Metricool: Metricool{
			BaseURL:        strings.TrimRight(v.GetString("METRICOOL_BASE_URL"), "/"),
			CredentialName: v.GetString("METRICOOL_CREDENTIAL_NAME"),
			WorkspaceID:    v.GetString("METRICOOL_WORKSPACE_ID"),
			UserID:         v.GetString("METRICOOL_USER_ID"),
			BlogID:         v.GetString("METRICOOL_BLOG_ID"),
			Timeout:        v.GetDuration("METRICOOL_TIMEOUT"),
		},
		AI: AI{
			BaseURL:        strings.TrimRight(v.GetString("AI_BASE_URL"), "/"),
			Model:          v.GetString("AI_MODEL"),
			CredentialName: v.GetString("AI_CREDENTIAL_NAME"),
			Timeout:        v.GetDuration("AI_TIMEOUT"),
		},
		Research: Research{
			HistoryLimit:  v.GetInt("RESEARCH_HISTORY_LIMIT"),
			PruneSchedule: v.GetString("RESEARCH_PRUNE_SCHEDULE"),
		},
		RateLimit: RateLimit{
			ContentPerMinute: v.GetInt("RATE_LIMIT_CONTENT"),
			PublishPerMinute: v.GetInt("RATE_LIMIT_PUBLISH"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch len(c.SecretKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("SECRET_KEY must be 16, 24 or 32 bytes, got %d", len(c.SecretKey))
	}
	if c.Research.HistoryLimit <= 0 {
		return fmt.Errorf("RESEARCH_HISTORY_LIMIT must be positive, got %d", c.Research.HistoryLimit)
	}
	if c.Metricool.CredentialName == "" {
		return fmt.Errorf("METRICOOL_CREDENTIAL_NAME cannot be empty")
	}
	return nil
}
