package datastore

import (
	"context"
	"crypto/tls"

	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo connects a client and verifies it with a ping against the primary.
func Mongo(ctx context.Context, s preset.DatabaseSettings) (*mongo.Client, error) {
	clientOpts, err := mongoOptions(s)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "failed to ping MongoDB")
	}
	return client, nil
}

func mongoOptions(s preset.DatabaseSettings) (*options.ClientOptions, error) {
	if err := expectKind(s, KindMongo); err != nil {
		return nil, err
	}

	clientOpts := options.Client().ApplyURI(s.URL)
	if s.SSL && clientOpts.TLSConfig == nil {
		clientOpts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	if err := clientOpts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid MongoDB URL")
	}
	return clientOpts, nil
}
