// Package datastore opens clients for the datastore described by the
// database preset (DATABASE_URL and DATABASE_SSL).
//
// The URL scheme selects the driver:
//   - postgres://, postgresql:// -> pgx connection pool
//   - redis://, rediss://         -> redigo connection pool
//   - mongodb://, mongodb+srv://  -> MongoDB client
//   - memcached://host1:11211,host2:11211 -> Memcached client
package datastore

import (
	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/pkg/errors"
)

// Kind identifies a datastore family.
type Kind string

const (
	KindPostgres  Kind = "postgres"
	KindRedis     Kind = "redis"
	KindMongo     Kind = "mongo"
	KindMemcached Kind = "memcached"
)

// KindOf returns the datastore family selected by the URL scheme.
func KindOf(s preset.DatabaseSettings) (Kind, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	switch scheme := s.Scheme(); scheme {
	case "postgres", "postgresql":
		return KindPostgres, nil
	case "redis", "rediss":
		return KindRedis, nil
	case "mongodb", "mongodb+srv":
		return KindMongo, nil
	case "memcached":
		return KindMemcached, nil
	default:
		return "", errors.Errorf("unsupported database URL scheme %q", scheme)
	}
}

func expectKind(s preset.DatabaseSettings, want Kind) error {
	got, err := KindOf(s)
	if err != nil {
		return err
	}
	if got != want {
		return errors.Errorf("database URL is a %s URL, not %s", got, want)
	}
	return nil
}
