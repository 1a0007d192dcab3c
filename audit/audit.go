// Package audit forwards moderation reports to durable storage. The in-memory
// store stays authoritative; a sink only keeps a copy for later review.
package audit

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meetnow/models"
)

const reportsCollection = "reports"

// Sink records reports outside the process.
type Sink interface {
	Record(ctx context.Context, r models.Report) error
	Close(ctx context.Context) error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(context.Context, models.Report) error { return nil }
func (Nop) Close(context.Context) error                 { return nil }

// MongoSink inserts each report into the reports collection.
type MongoSink struct {
	client  *mongo.Client
	reports *mongo.Collection
	log     zerolog.Logger
}

// New connects to MongoDB when uri is set and returns Nop otherwise.
func New(ctx context.Context, uri, database string, log zerolog.Logger) (Sink, error) {
	if uri == "" {
		log.Info().Msg("MONGODB_URI not set, report audit disabled")
		return Nop{}, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = 30 * time.Second
	return Connect(ctx, uri, database, policy, log)
}

// Connect dials MongoDB and pings it, retrying under policy until it answers.
func Connect(ctx context.Context, uri, database string, policy backoff.BackOff, log zerolog.Logger) (*MongoSink, error) {
	log = log.With().Str("component", "audit").Logger()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}

	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("MongoDB ping failed")
			return err
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(policy, ctx)); err != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, errors.Wrapf(err, "mongo ping after %d attempts", attempt)
	}

	log.Info().Str("database", database).Msg("Connected to MongoDB successfully")
	return &MongoSink{
		client:  client,
		reports: client.Database(database).Collection(reportsCollection),
		log:     log,
	}, nil
}

func (m *MongoSink) Record(ctx context.Context, r models.Report) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := m.reports.InsertOne(ctx, r); err != nil {
		return errors.Wrapf(err, "insert report %s", r.ID)
	}
	m.log.Debug().Str("report_id", r.ID).Msg("report archived")
	return nil
}

func (m *MongoSink) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "mongo disconnect")
	}
	m.log.Info().Msg("Disconnected from MongoDB")
	return nil
}
