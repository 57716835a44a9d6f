package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	GeminiAPIKey      string // empty = AI adapter degrades to fixed defaults
	SupabaseURL       string
	SupabaseSecretKey string // must be the service_role key, not the anon key
	BrevoAPIKey       string // optional email mirror for notifications
	MailFrom          string
	FrontendURL       string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          viper.GetString("REDIS_URL"),
		JWTSecret:         viper.GetString("JWT_TOKEN_SECRET"),
		GeminiAPIKey:      viper.GetString("GEMINI_API_KEY"),
		SupabaseURL:       viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey: viper.GetString("SUPABASE_SECRET_KEY"),
		BrevoAPIKey:       viper.GetString("BREVO_API_KEY"),
		MailFrom:          viper.GetString("MAIL_FROM"),
		FrontendURL:       viper.GetString("FRONTEND_URL"),
	}, nil
}
