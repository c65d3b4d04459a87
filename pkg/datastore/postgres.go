package datastore

import (
	"context"
	"net/url"

	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Postgres creates a connection pool and verifies it with a ping.
// DATABASE_SSL selects sslmode=require (or disable) unless the URL sets sslmode itself.
func Postgres(ctx context.Context, s preset.DatabaseSettings) (*pgxpool.Pool, error) {
	poolConfig, err := postgresConfig(s)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping PostgreSQL database")
	}
	return pool, nil
}

func postgresConfig(s preset.DatabaseSettings) (*pgxpool.Config, error) {
	if err := expectKind(s, KindPostgres); err != nil {
		return nil, err
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid PostgreSQL URL")
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		if s.SSL {
			q.Set("sslmode", "require")
		} else {
			q.Set("sslmode", "disable")
		}
		u.RawQuery = q.Encode()
	}

	poolConfig, err := pgxpool.ParseConfig(u.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse PostgreSQL connection string")
	}
	return poolConfig, nil
}
