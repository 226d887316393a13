package bundlestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
)

// S3Store uploads bundles to an S3-compatible bucket so a remote serving host
// can pull them.
type S3Store struct {
	client *s3.Client
	cfg    *config.S3Config
}

func NewS3Store(cfg *config.Config) (*S3Store, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("s3 config is not set")
	}

	credentialsProvider := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithRegion(cfg.S3.Region),
		awsConfig.WithCredentialsProvider(credentialsProvider),
	)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.EndpointUrl != "" {
			o.BaseEndpoint = &cfg.S3.EndpointUrl
		}
	})

	return &S3Store{
		client: s3Client,
		cfg:    cfg.S3,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, bundlePath string) (string, error) {
	folder := strings.TrimSuffix(s.cfg.Folder, "/")
	key := filepath.Base(bundlePath)
	if folder != "" {
		key = fmt.Sprintf("%s/%s", folder, key)
	}

	file, err := os.Open(bundlePath)
	if err != nil {
		return "", fmt.Errorf("failed to open bundle: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	contentType := mtype.String()
	input := s3.PutObjectInput{
		Key:         &key,
		ContentType: &contentType,
		Bucket:      &s.cfg.Bucket,
		Body:        file,
	}
	if _, err := s.client.PutObject(ctx, &input); err != nil {
		return "", fmt.Errorf("failed to upload bundle: %w", err)
	}

	if s.cfg.PublicUrl != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.PublicUrl, "/"), key), nil
	}

	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key), nil
}
