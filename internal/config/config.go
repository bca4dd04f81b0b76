package config

import (
	"fmt"
	"strings"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from config.yml and environment variables.
type Config struct {
	Server struct {
		Port        string `default:"8080" env:"SERVER_PORT"`
		SwaggerHost string `default:"" env:"SWAGGER_HOST"`
		CORSOrigins string `default:"http://localhost:5173" env:"CORS_ORIGINS"`
		LogLevel    string `default:"info" env:"LOG_LEVEL"`
	}
	Database struct {
		Driver         string `default:"mysql" env:"DB_DRIVER"`
		DSN            string `default:"user:password@tcp(localhost:3306)/assetverse?charset=utf8mb4&parseTime=True&loc=Local" env:"DB_DSN"`
		Debug          bool   `default:"false" env:"DB_DEBUG"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		Reset          bool   `default:"false" env:"RESET_DB"`
	}
	Redis struct {
		Addr     string `default:"localhost:6379" env:"REDIS_ADDR"`
		Password string `default:"" env:"REDIS_PASSWORD"`
		DB       int    `default:"0" env:"REDIS_DB"`
	}
	JWT struct {
		Secret   string `default:"change-me" env:"JWT_SECRET"`
		TTLHours int    `default:"24" env:"JWT_TTL_HOURS"`
	}
	Payment struct {
		StripeSecret  string `default:"" env:"STRIPE_SECRET"`
		WebhookSecret string `default:"" env:"STRIPE_WEBHOOK_SECRET"`
		Currency      string `default:"usd" env:"PAYMENT_CURRENCY"`
		SiteDomain    string `default:"http://localhost:5173" env:"SITE_DOMAIN"`
	}
	Mongo struct {
		URI      string `default:"" env:"MONGODB_URI"`
		Database string `default:"assetverse" env:"MONGODB_DATABASE"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		Bucket          string `default:"assetverse" env:"S3_BUCKET"`
		UseSSL          bool   `default:"false" env:"S3_USE_SSL"`
		PublicURL       string `default:"" env:"S3_PUBLIC_URL"`
	}
	Smtp struct {
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"587" env:"SMTP_PORT"`
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		From       string `default:"" env:"SMTP_FROM"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

// Load builds Config from an optional .env file, config.yml and the environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	conf := new(Config)
	if err := configor.New(&configor.Config{}).Load(conf, configFiles()...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return conf, nil
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MigrateOnStart reports whether schema migration should run at boot.
func (c *Config) MigrateOnStart() bool {
	return c.Database.MigrateOnStart == nil || *c.Database.MigrateOnStart
}

// SmtpTLS reports whether mail is sent over implicit TLS.
func (c *Config) SmtpTLS() bool {
	return c.Smtp.TLSEnabled == nil || *c.Smtp.TLSEnabled
}
