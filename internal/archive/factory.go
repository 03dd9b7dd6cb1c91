package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wewinbid/approval-engine/internal/archive/drivers"
	"github.com/wewinbid/approval-engine/internal/config"
)

// NewStorageFromConfig creates the archive storage selected by cfg.Type.
// It returns nil, nil when archiving is disabled.
func NewStorageFromConfig(ctx context.Context, cfg config.ArchiveConfig) (StorageDriver, error) {
	switch cfg.Type {
	case "", "none":
		slog.Info("request history archiving disabled")
		return nil, nil
	case "local":
		slog.Info("initializing local archive storage", "dir", cfg.LocalBaseDir)
		driver, err := drivers.NewLocalFSDriver(cfg.LocalBaseDir)
		if err != nil {
			return nil, err
		}
		return driver, nil
	case "s3":
		slog.Info("initializing S3 archive storage", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)

		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.S3Region),
		}

		if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
			creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
			opts = append(opts, awsconfig.WithCredentialsProvider(creds))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			}
			o.UsePathStyle = true
		})

		return drivers.NewS3Driver(client, cfg.S3Bucket, cfg.S3Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", cfg.Type)
	}
}
