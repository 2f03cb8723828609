package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bilgisen/newscast/internal/models"
)

// R2Config describes an S3-compatible bucket (Cloudflare R2) for run-report
// mirroring.
type R2Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// Enabled reports whether the mirror is fully configured.
func (c R2Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// R2Mirror uploads run reports to an S3-compatible bucket.
type R2Mirror struct {
	client *s3.Client
	bucket string
}

func NewR2Mirror(ctx context.Context, cfg R2Config) (*R2Mirror, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("r2 mirror not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &R2Mirror{client: client, bucket: cfg.Bucket}, nil
}

// UploadReport mirrors one run report under runs/YYYY/MM/DD/<ts>_<id>.json.
func (m *R2Mirror) UploadReport(ctx context.Context, report *models.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	key := path.Join(
		"runs",
		report.StartedAt.UTC().Format("2006/01/02"),
		fmt.Sprintf("%d_%s.json", report.StartedAt.Unix(), report.ID),
	)

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload run report %s: %w", report.ID, err)
	}

	return nil
}
