package objectclient

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	cfg "github.com/markdave123-py/pagetext/internal/config"
	"github.com/markdave123-py/pagetext/internal/core"
)

type S3Client struct {
	client     *s3.Client
	downloader *manager.Downloader
	region     string
	logger     zerolog.Logger
}

var _ core.ObjectClient = (*S3Client)(nil)

// NewS3Client builds an S3 client for the configured region. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain. A custom endpoint (MinIO, localstack)
// switches to path-style addressing.
func NewS3Client(ctx context.Context, cfg *cfg.Config, logger zerolog.Logger) (*S3Client, error) {
	if cfg.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AwsRegion)}
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AwsEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AwsEndpoint)
			o.UsePathStyle = true
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	log := logger.With().Str("component", "s3").Str("region", cfg.AwsRegion).Logger()
	log.Info().Str("endpoint", cfg.AwsEndpoint).Msg("s3 client ready")

	return &S3Client{
		client:     client,
		downloader: manager.NewDownloader(client),
		region:     cfg.AwsRegion,
		logger:     log,
	}, nil
}

// Download writes the object at bucket/key into w and returns the number of bytes written.
func (c *S3Client) Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error) {
	n, err := c.downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return 0, core.FetchError(fmt.Sprintf("object s3://%s/%s not found", bucket, key), err)
		}
		return 0, core.FetchError(fmt.Sprintf("download s3://%s/%s", bucket, key), err)
	}

	c.logger.Debug().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Msg("downloaded object")
	return n, nil
}
