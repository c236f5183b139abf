package config

// DBConfig contains PostgreSQL database configuration for the hosted
// relational store holding the profiles table.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"studyhall"`
	Password string `env:"PASSWORD" envDefault:"studyhall"`
	Name     string `env:"NAME"     envDefault:"studyhall"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the login-attempt limiter.
// An empty Addr disables Redis; the limiter then falls back to an
// in-process implementation.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
