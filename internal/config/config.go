package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port                   string `env:"PORT" envDefault:"8080"`
	DBUser                 string `env:"DB_USER,required"`
	DBPassword             string `env:"DB_PASSWORD,required"`
	DBHost                 string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME,required"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
	LogMode                string `env:"LOG_MODE" envDefault:"production"`

	// An empty project id is only accepted with AUTH_DEV_MODE, which trusts X-User-Id.
	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	AuthDevMode       bool   `env:"AUTH_DEV_MODE" envDefault:"false"`

	GamificationStrictErrors bool `env:"GAMIFICATION_STRICT_ERRORS" envDefault:"false"`

	// Only used by cmd/seed.
	StorageBucket string `env:"STORAGE_BUCKET"`
	BadgeIconDir  string `env:"BADGE_ICON_DIR"`
	// Service account key for the upload; application default credentials otherwise.
	StorageCredentialsFile string `env:"STORAGE_CREDENTIALS_FILE"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
