package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Each field maps to one
// environment variable; required ones are enforced by must().
type Config struct {
	Env            string // application environment (dev/test/prod)
	Port           string // HTTP port to listen on
	DBUser         string
	DBPass         string // optional
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string
	AccessTTLMin   int // access token TTL in minutes
	RefreshTTLDays int // refresh token TTL in days
	BcryptCost     int

	// Media upload bridge. The default cloud handles images and audio
	// through an unsigned preset; the PDF cloud uses signed raw uploads.
	CloudinaryCloudName    string
	PDFCloudinaryCloudName string
	PDFCloudinaryAPIKey    string
	PDFCloudinaryAPISecret string

	ResendAPIKey   string // outbound email, empty disables sending
	FrontendOrigin string // CORS origin of the web client

	AMQPURL string // RabbitMQ connection string, empty disables events
}

// Load reads the environment and exits on missing required variables.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		CloudinaryCloudName:    must("CLOUDINARY_CLOUD_NAME"),
		PDFCloudinaryCloudName: os.Getenv("PDF_CLOUDINARY_CLOUD_NAME"),
		PDFCloudinaryAPIKey:    os.Getenv("PDF_CLOUDINARY_API_KEY"),
		PDFCloudinaryAPISecret: os.Getenv("PDF_CLOUDINARY_API_SECRET"),

		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "https://hekayaty-platforms-flax.vercel.app"),

		AMQPURL: os.Getenv("AMQP_URL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
