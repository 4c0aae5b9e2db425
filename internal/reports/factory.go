package reports

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ens-screening/backend/internal/config"
)

// NewStoreFromConfig creates a report store based on the provided configuration.
func NewStoreFromConfig(ctx context.Context, cfg config.ReportStorageConfig) (ReportStore, error) {
	switch cfg.Type {
	case "local":
		slog.Info("Initializing local report store", "dir", cfg.LocalBaseDir)
		return NewLocalStore(cfg.LocalBaseDir)
	case "s3":
		slog.Info("Initializing S3 report store", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)

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

		return NewS3Store(client, cfg.S3Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported report storage type: %s", cfg.Type)
	}
}
