package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET"`
	VCCAPIKey   string `env:"VCC_API_KEY"`
	VCCBaseURL  string `env:"VCC_BASE_URL" default:"https://api.cardissuer.example.com"`
	Env         string `env:"APP_ENV" default:"dev"`
}
