package datastore

import (
	"crypto/tls"
	"time"

	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/gomodule/redigo/redis"
)

const (
	redisMaxIdle     = 3
	redisIdleTimeout = 240 * time.Second
)

// Redis creates a connection pool. Connections are dialed lazily; TLS is used
// for rediss:// URLs or when DATABASE_SSL is set.
func Redis(s preset.DatabaseSettings) (*redis.Pool, error) {
	if err := expectKind(s, KindRedis); err != nil {
		return nil, err
	}

	opts := redisDialOptions(s)
	rawURL := s.URL
	return &redis.Pool{
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
		MaxIdle:     redisMaxIdle,
		IdleTimeout: redisIdleTimeout,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(rawURL, opts...)
		},
	}, nil
}

func redisDialOptions(s preset.DatabaseSettings) []redis.DialOption {
	var opts []redis.DialOption
	if s.SSL {
		opts = append(opts,
			redis.DialUseTLS(true),
			redis.DialTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		)
	}
	return opts
}
