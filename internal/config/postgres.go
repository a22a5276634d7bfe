package config

import "time"

type Postgres struct {
	Host            string `env:"POSTGRES_HOST,required,notEmpty"`
	Port            int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string `env:"POSTGRES_USER,required,notEmpty"`
	Password        string `env:"POSTGRES_PASSWORD,required"`
	DB              string `env:"POSTGRES_DB,required,notEmpty"`
	SSLMode         string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	ApplicationName string `env:"POSTGRES_APPLICATION_NAME"`

	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}
