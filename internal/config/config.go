package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string   `env:"HTTP_PORT" envDefault:"3500"`
	MongoURI       string   `env:"MONGO_URI,required"`
	MongoDB        string   `env:"MONGO_DB" envDefault:"fitfusion"`
	JWTSecret      string   `env:"JWT_SECRET,required"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LoadConfig carga la configuración desde variables de entorno. MONGO_URI y
// JWT_SECRET son obligatorios: sin secreto de firma el proceso no arranca.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
