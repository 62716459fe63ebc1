package feed

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/config"
)

// Source opens the raw content of a feed
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads a feed from the local filesystem
type FileSource struct {
	Path string
}

// Open opens the file
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }

// ObjectGetter is the part of the S3 client used to download feeds
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a feed stored as an S3 object
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

// Open downloads the object; the caller closes the body
func (s S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get feed %s: %w", s, err)
	}
	return out.Body, nil
}

func (s S3Source) String() string { return "s3://" + s.Bucket + "/" + s.Key }

// OpenSource resolves location into a Source. Locations of the form
// s3://bucket/key are read from object storage, anything else is a file
// path. The S3 client is only created when needed.
func OpenSource(location string, storage *config.StorageConfig) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("feed location is required")
	}
	if !strings.HasPrefix(location, "s3://") {
		return FileSource{Path: location}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid feed location %q: %w", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("invalid feed location %q: expected s3://bucket/key", location)
	}

	client, err := NewS3Client(storage)
	if err != nil {
		return nil, err
	}
	return S3Source{Client: client, Bucket: u.Host, Key: key}, nil
}
