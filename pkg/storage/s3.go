package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/logandonley/courier/pkg/logging"
)

// S3Storage implements ObjectStorage for AWS S3 and S3-compatible services
type S3Storage struct {
	client *s3.Client
	config *S3Config
}

// S3Config holds the configuration for S3-compatible storage
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(ctx context.Context, config *S3Config) (*S3Storage, error) {
	logging.Debug("creating S3 storage",
		zap.String("region", config.Region),
		zap.String("endpoint", config.Endpoint))

	// Custom resolver for B2, MinIO and other S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID && config.Endpoint != "" {
			return aws.Endpoint{
				URL:               config.Endpoint,
				SigningRegion:     config.Region,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.AccessKeyID,
			config.SecretAccessKey,
			"",
		)),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = config.Endpoint != ""
	})

	return &S3Storage{
		client: client,
		config: config,
	}, nil
}

// Put uploads a file to S3 storage
func (s *S3Storage) Put(ctx context.Context, bucket, key, localPath string) (PutResult, error) {
	logging.Debug("uploading object", zap.String("bucket", bucket), zap.String("key", key))

	file, err := os.Open(localPath)
	if err != nil {
		return PutResult{}, fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		if code, ok := responseStatus(err); ok {
			return PutResult{StatusCode: code, Message: err.Error()}, nil
		}
		return PutResult{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return PutResult{
		StatusCode: http.StatusOK,
		Location:   s.objectURL(bucket, key),
	}, nil
}

// Delete deletes a file from S3 storage
func (s *S3Storage) Delete(ctx context.Context, bucket, key string) (DeleteResult, error) {
	logging.Debug("deleting object", zap.String("bucket", bucket), zap.String("key", key))

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if code, ok := responseStatus(err); ok {
			return DeleteResult{StatusCode: code, Message: err.Error()}, nil
		}
		return DeleteResult{}, fmt.Errorf("failed to delete object: %w", err)
	}

	return DeleteResult{StatusCode: http.StatusNoContent}, nil
}

// objectURL returns the public URL of an object. Custom endpoints use
// path-style addressing, AWS uses the virtual-hosted form.
func (s *S3Storage) objectURL(bucket, key string) string {
	if s.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.Endpoint, "/"), bucket, escapeKey(key))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.config.Region, escapeKey(key))
}

// responseStatus extracts the HTTP status of a response the service did send
func responseStatus(err error) (int, bool) {
	var re *awshttp.ResponseError
	if errors.As(err, &re) && re.HTTPStatusCode() != 0 {
		return re.HTTPStatusCode(), true
	}
	return 0, false
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
