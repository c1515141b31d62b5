package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// LLM provider configuration
	LLMProvider        string
	GeminiAPIKey       string
	GeminiTextModel    string
	GeminiVisionModel  string
	BedrockModelID     string
	AnalysisTimeout    time.Duration
	MaxImageBytes      int
	EmptySectionPolicy string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Geocode cache
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool
	GeocodeCacheTTL time.Duration

	// Facility search
	OverpassURL          string
	NominatimURL         string
	NominatimUserAgent   string
	NominatimRPS         float64
	FacilityRadiusMeters int
	HTTPClientTimeout    time.Duration

	DoctorDirectoryPath string

	// Email copy of analysis reports
	EmailProvider           string
	EmailFromName           string
	EmailCopyAllowedDomains []string
	SendGridAPIKey          string
	SendGridFromEmail       string
	SESFromEmail            string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 5),

		LLMProvider:        strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "gemini"))),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel:    getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
		GeminiVisionModel:  getEnv("GEMINI_VISION_MODEL", "gemini-2.0-flash"),
		BedrockModelID:     getEnv("BEDROCK_MODEL_ID", ""),
		AnalysisTimeout:    getEnvAsDuration("ANALYSIS_TIMEOUT", 60*time.Second),
		MaxImageBytes:      getEnvAsInt("MAX_IMAGE_BYTES", 5*1024*1024),
		EmptySectionPolicy: strings.ToLower(strings.TrimSpace(getEnv("EMPTY_SECTION_POLICY", "drop"))),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),
		GeocodeCacheTTL: getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),

		OverpassURL:          getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		NominatimURL:         getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		NominatimUserAgent:   getEnv("NOMINATIM_USER_AGENT", "care-portal/1.0"),
		NominatimRPS:         getEnvAsFloat("NOMINATIM_RPS", 1),
		FacilityRadiusMeters: getEnvAsInt("FACILITY_RADIUS_METERS", 5000),
		HTTPClientTimeout:    getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 25*time.Second),

		DoctorDirectoryPath: getEnv("DOCTOR_DIRECTORY_PATH", ""),

		EmailProvider:           strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		EmailFromName:           getEnv("EMAIL_FROM_NAME", "Care Portal"),
		EmailCopyAllowedDomains: getEnvAsList("EMAIL_COPY_ALLOWED_DOMAINS"),
		SendGridAPIKey:          getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:       getEnv("SENDGRID_FROM_EMAIL", ""),
		SESFromEmail:            getEnv("SES_FROM_EMAIL", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
