package config

import (
	"os"

	"github.com/joho/godotenv"

	"collabnest/backend/logging"
)

// Config drži sve vrednosti koje server čita iz okruženja.
type Config struct {
	MongoURI      string
	CassandraHost string
	JWTSecret     string
	ServerPort    string
	CORSOrigin    string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string

	// AllowReapplyAfterRejection dozvoljava studentu novu prijavu na projekat
	// posle odbijene; podrazumevano je iskljuceno.
	AllowReapplyAfterRejection bool
}

// Load učitava .env fajl ako postoji, pa čita vrednosti sa podrazumevanim
// fallback-ovima za lokalni razvoj.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Infof("Event ID: ENV_FILE_NOT_LOADED, Description: .env file not loaded, falling back to process environment: %v", err)
	}

	return Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		CassandraHost: os.Getenv("CASS_DB"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		ServerPort:    getEnv("SERVER_PORT", ":8080"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPPassword: os.Getenv("EMAIL_PASSWORD"),

		AllowReapplyAfterRejection: getEnv("ALLOW_REAPPLY_AFTER_REJECTION", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
