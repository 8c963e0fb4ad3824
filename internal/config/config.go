package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"No-Reply"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	OTPLength           int `env:"OTP_LENGTH" envDefault:"6"`
	OTPTTLSeconds       int `env:"OTP_TTL_SECONDS" envDefault:"120"`
	OTPRateLimitSeconds int `env:"OTP_RATE_LIMIT_SECONDS" envDefault:"30"`

	JWTSecret        string `env:"JWT_SECRET,required"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"10080"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AnalyticsCacheTTLSeconds int `env:"ANALYTICS_CACHE_TTL_SECONDS" envDefault:"300"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
