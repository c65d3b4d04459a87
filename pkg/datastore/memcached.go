package datastore

import (
	"net/url"
	"strings"
	"time"

	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

const (
	memcachedTimeout      = 100 * time.Millisecond
	memcachedMaxIdleConns = 2
)

// Memcached creates a client for the comma separated servers in the URL
// host part and verifies them with a ping. Memcached has no TLS support here,
// so DATABASE_SSL must be false.
func Memcached(s preset.DatabaseSettings) (*memcache.Client, error) {
	client, err := memcachedClient(s)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Memcached")
	}
	return client, nil
}

func memcachedClient(s preset.DatabaseSettings) (*memcache.Client, error) {
	servers, err := memcachedServers(s)
	if err != nil {
		return nil, err
	}
	client := memcache.New(servers...)
	client.Timeout = memcachedTimeout
	client.MaxIdleConns = memcachedMaxIdleConns
	return client, nil
}

func memcachedServers(s preset.DatabaseSettings) ([]string, error) {
	if err := expectKind(s, KindMemcached); err != nil {
		return nil, err
	}
	if s.SSL {
		return nil, errors.New("memcached does not support DATABASE_SSL")
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Memcached URL")
	}
	var servers []string
	for i, server := range strings.Split(u.Host, ",") {
		server = strings.TrimSpace(server)
		if server == "" {
			return nil, errors.Errorf("server address at index %d is empty", i)
		}
		servers = append(servers, server)
	}
	return servers, nil
}
