package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultMaxUploadBytes is the upload ceiling when MAX_UPLOAD_BYTES is unset.
const DefaultMaxUploadBytes int64 = 100 << 20 // 100 MiB

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	TrustedProxies     []string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	LLMProvider        string
	LLMModel           string
	LLMBaseURL         string
	OpenAIAPIKey       string
	LLMTimeout         time.Duration
	MaxUploadBytes     int64
	PDFTextExtraction  bool
	ChatRateLimitRPS   float64
	ChatRateLimitBurst int
	DatabaseURL        string
	Env                string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	v.SetDefault("PDF_TEXT_EXTRACTION", true)
	v.SetDefault("RATE_LIMIT_CHAT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_CHAT_BURST", 5)
}

func fromViper(v *viper.Viper) Config {
	timeout := v.GetDuration("LLM_TIMEOUT")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxUpload := v.GetInt64("MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	return Config{
		Port:               v.GetString("PORT"),
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		TrustedProxies:     splitAndTrim(v.GetString("TRUSTED_PROXIES")),
		ObjectStoreType:    normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:      v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		LLMProvider:        normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:           v.GetString("LLM_MODEL"),
		LLMBaseURL:         v.GetString("LLM_BASE_URL"),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		LLMTimeout:         timeout,
		MaxUploadBytes:     maxUpload,
		PDFTextExtraction:  v.GetBool("PDF_TEXT_EXTRACTION"),
		ChatRateLimitRPS:   v.GetFloat64("RATE_LIMIT_CHAT_RPS"),
		ChatRateLimitBurst: v.GetInt("RATE_LIMIT_CHAT_BURST"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		Env:                normalizeEnv(v.GetString("ENV")),
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "none"
	}
}
