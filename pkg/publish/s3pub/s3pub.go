// Package s3pub uploads visualization documents to an S3-compatible bucket.
//
// Each delivery becomes a new object <prefix>/<user>/assignments/<assignment>/<id>.json,
// so the bucket keeps the full history of an assignment.
package s3pub

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/bridges/internal/idgen"
	"github.com/matzehuels/bridges/pkg/document"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Name is the publisher name used in receipts and configuration.
const Name = "s3"

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "bridges"

// Config configures a Publisher.
type Config struct {
	Bucket   string
	Region   string
	Endpoint string // non-empty enables path-style addressing (MinIO and similar)
	Prefix   string
}

// Publisher uploads documents with PutObject.
type Publisher struct {
	client *s3.Client
	bucket string
	prefix string
}

// New loads the default AWS configuration and creates a Publisher.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewFromConfig(awsCfg, cfg), nil
}

// NewFromConfig creates a Publisher from an existing AWS configuration.
func NewFromConfig(awsCfg aws.Config, cfg Config, optFns ...func(*s3.Options)) *Publisher {
	var s3opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{
		client: s3.NewFromConfig(awsCfg, append(s3opts, optFns...)...),
		bucket: cfg.Bucket,
		prefix: prefix,
	}
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return Name }

// Key returns the object key for one delivery.
func (p *Publisher) Key(dest publish.Destination, id string) string {
	return path.Join(p.prefix, dest.Key(), id+".json")
}

// Deliver uploads doc as a new object.
func (p *Publisher) Deliver(ctx context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	start := time.Now()
	data, err := publish.Encode(doc, dest)
	if err != nil {
		return publish.Receipt{}, err
	}
	id, err := idgen.Generate()
	if err != nil {
		return publish.Receipt{}, err
	}

	r := publish.NewReceipt(Name, dest)
	key := p.Key(dest, id)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"receipt-id": r.ID,
			"assignment": dest.Assignment,
			"user":       dest.UserName,
		},
	})
	if err != nil {
		return publish.Receipt{}, publish.Failed(Name, dest, fmt.Errorf("s3 put object: %w", err))
	}

	r.Bytes = len(data)
	r.Location = "s3://" + p.bucket + "/" + key
	r.Duration = time.Since(start)
	return r, nil
}

var _ publish.Publisher = (*Publisher)(nil)
