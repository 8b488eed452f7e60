package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits list-valued variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced with must(); the
// external integrations (Stripe, Gemini, Redis, RabbitMQ) are optional and
// the service degrades gracefully when they are not configured.
type Config struct {
	Env              string   // application environment (e.g. "dev", "prod")
	Port             string   // HTTP port to listen on
	DBUser           string   // database username
	DBPass           string   // database password (optional)
	DBHost           string   // database host address
	DBPort           string   // database port number
	DBName           string   // database name
	JWTSecret        string   // secret used to sign JWTs
	AccessTTLMin     int      // access token time-to-live in minutes
	RefreshTTLDays   int      // refresh token time-to-live in days
	BcryptCost       int      // bcrypt cost factor for password hashing
	DislikeThreshold int      // dislike count at which a note is auto-deleted
	LegacyFallback   bool     // whether empty reads fall back to the legacy notes table
	GeminiAPIKey     string   // Gemini API key (empty disables generative endpoints)
	GeminiModel      string   // Gemini model identifier
	StripeSecretKey  string   // Stripe secret key (empty disables billing endpoints)
	CORSOrigins      []string // allowed frontend origins
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:       mustInt("BCRYPT_COST"),
		DislikeThreshold: envInt("DISLIKE_DELETE_THRESHOLD", 20),
		LegacyFallback:   envBool("LEGACY_FALLBACK_ENABLED", true),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envStr("GEMINI_MODEL", "gemini-2.0-flash"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		CORSOrigins:      parseList(envStr("CORS_ORIGINS", "http://localhost:5173,https://*.run.app")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// parseList splits a comma-separated variable into trimmed, non-empty parts.
func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
