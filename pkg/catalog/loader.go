package catalog

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/pkg/config"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// ObjectGetter is the part of the S3 API the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads catalogs from local files and s3:// URLs.
type Loader struct {
	cfg config.CatalogConfig

	mu     sync.Mutex
	client ObjectGetter
}

// NewLoader returns a loader. The S3 client is created on first use from
// the default AWS credential chain.
func NewLoader(cfg config.CatalogConfig) *Loader {
	return &Loader{cfg: cfg}
}

// NewLoaderWithClient returns a loader that reads s3:// URLs through client.
func NewLoaderWithClient(cfg config.CatalogConfig, client ObjectGetter) *Loader {
	return &Loader{cfg: cfg, client: client}
}

// Load reads the catalog at source. The format follows the extension.
func (l *Loader) Load(ctx context.Context, source string) ([]proto.Region, error) {
	format, err := FormatOf(source)
	if err != nil {
		return nil, err
	}

	rc, err := l.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close() // nolint: errcheck

	regions, err := Parse(rc, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	log.FromContext(ctx).WithPrefix("catalog").Debug("catalog loaded", "source", source, "regions", len(regions))

	return regions, nil
}

// Open returns a reader for source, a local path or an s3://bucket/key URL.
func (l *Loader) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "s3://") {
		return os.Open(source) //nolint:gosec
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %q: %w", source, err)
	}
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid catalog url %q: want s3://bucket/key", source)
	}

	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", source, err)
	}
	return out.Body, nil
}

func (l *Loader) s3Client(ctx context.Context) (ObjectGetter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}

	region := l.cfg.S3.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	l.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = l.cfg.S3.UsePathStyle
		if l.cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(l.cfg.S3.Endpoint)
		}
	})
	return l.client, nil
}
