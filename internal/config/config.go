package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Env             string
	AppBaseURL      string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RabbitURL       string
	RateLimitPerMin int
	SessionTTLDays  int

	// identity provider
	IdentityJWKSURL  string
	IdentityMintURL  string
	IdentityAPIKey   string
	IdentityIssuer   string
	IdentityAudience string

	// payment processor
	StripeSecretKey      string
	StripePublishableKey string
	StripePricingTableID string
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		Env:             getenv("APP_ENV", "development"),
		AppBaseURL:      getenv("APP_BASE_URL", "http://localhost:3000"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "tasks_db"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RabbitURL:       getenv("RABBIT_URL", ""),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "30")),
		SessionTTLDays:  atoi(getenv("SESSION_TTL_DAYS", "14")),

		IdentityJWKSURL:  getenv("IDENTITY_JWKS_URL", ""),
		IdentityMintURL:  getenv("IDENTITY_MINT_URL", ""),
		IdentityAPIKey:   getenv("IDENTITY_API_KEY", ""),
		IdentityIssuer:   getenv("IDENTITY_ISSUER", ""),
		IdentityAudience: getenv("IDENTITY_AUDIENCE", ""),

		StripeSecretKey:      getenv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: getenv("STRIPE_PUBLISHABLE_KEY", ""),
		StripePricingTableID: getenv("STRIPE_PRICING_TABLE_ID", ""),
	}
}

func (c Config) Production() bool { return c.Env == "production" }

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
