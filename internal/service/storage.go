package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vitaltrack/backend/config"
)

// StorageService uploads profile pictures to S3 and hands back public URLs.
type StorageService struct {
	client *s3.Client
	bucket string
}

// NewStorageService builds an S3-backed store from the app config. AWS
// credentials come from the default provider chain.
func NewStorageService(ctx context.Context, cfg *config.Config) (*StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &StorageService{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
	}, nil
}

// UploadProfilePicture stores the image under a per-user key and returns the
// public URL. The key embeds a fresh uuid so re-uploads never collide with a
// cached older picture.
func (s *StorageService) UploadProfilePicture(ctx context.Context, userID uint, data []byte, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType := contentTypeForExt(ext)
	if contentType == "" {
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	key := fmt.Sprintf("profile-pictures/%d/%s%s", userID, uuid.NewString(), ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
