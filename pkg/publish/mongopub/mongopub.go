// Package mongopub stores visualization documents in MongoDB.
//
// Each destination owns one record keyed by "<user>/assignments/<assignment>";
// a delivery replaces it.
package mongopub

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/bridges/pkg/document"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Name is the publisher name used in receipts and configuration.
const Name = "mongo"

// Defaults for Config.
const (
	DefaultDatabase   = "bridges"
	DefaultCollection = "assignments"
)

// Config configures a Publisher.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Record is the stored form of a delivery.
type Record struct {
	ID          string    `bson:"_id"`
	Assignment  string    `bson:"assignment"`
	User        string    `bson:"user"`
	Document    bson.M    `bson:"document"`
	ReceiptID   string    `bson:"receipt_id"`
	Bytes       int       `bson:"bytes"`
	DeliveredAt time.Time `bson:"delivered_at"`
}

// Publisher upserts documents into a collection.
type Publisher struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to MongoDB and pings the primary.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewFromClient(client, cfg.Database, cfg.Collection), nil
}

// NewFromClient wraps an existing client. Closing the publisher disconnects it.
func NewFromClient(client *mongo.Client, database, collection string) *Publisher {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &Publisher{client: client, coll: client.Database(database).Collection(collection)}
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return Name }

// NewRecord converts a delivery into its stored form. Numbers keep their
// JSON integer or floating point representation.
func NewRecord(doc document.Document, dest publish.Destination, receiptID string, at time.Time) (Record, []byte, error) {
	data, err := publish.Encode(doc, dest)
	if err != nil {
		return Record{}, nil, err
	}
	var body bson.M
	if err := bson.UnmarshalExtJSON(data, false, &body); err != nil {
		return Record{}, nil, fmt.Errorf("convert document: %w", err)
	}
	return Record{
		ID:          dest.Key(),
		Assignment:  dest.Assignment,
		User:        dest.UserName,
		Document:    body,
		ReceiptID:   receiptID,
		Bytes:       len(data),
		DeliveredAt: at.UTC(),
	}, data, nil
}

// Deliver replaces the destination's record.
func (p *Publisher) Deliver(ctx context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	start := time.Now()
	r := publish.NewReceipt(Name, dest)
	rec, data, err := NewRecord(doc, dest, r.ID, start)
	if err != nil {
		return publish.Receipt{}, err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := p.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts); err != nil {
		return publish.Receipt{}, publish.Failed(Name, dest, err)
	}

	r.Bytes = len(data)
	r.Location = fmt.Sprintf("mongodb://%s.%s/%s", p.coll.Database().Name(), p.coll.Name(), rec.ID)
	r.Duration = time.Since(start)
	return r, nil
}

// Latest loads the document stored for dest.
func (p *Publisher) Latest(ctx context.Context, dest publish.Destination) (document.Document, error) {
	var rec Record
	if err := p.coll.FindOne(ctx, bson.M{"_id": dest.Key()}).Decode(&rec); err != nil {
		return nil, err
	}
	data, err := bson.MarshalExtJSON(rec.Document, false, false)
	if err != nil {
		return nil, err
	}
	return document.Unmarshal(data)
}

// Close disconnects the client.
func (p *Publisher) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}

var _ publish.Publisher = (*Publisher)(nil)
