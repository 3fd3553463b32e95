package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

// MediaStorage stores an uploaded attachment and returns its public URL.
type MediaStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type R2Service struct {
	config cfg.R2

	once   sync.Once
	client *s3.Client
	err    error
}

func NewR2Service(c cfg.Config) *R2Service {
	return &R2Service{config: c.R2}
}

func (r *R2Service) r2Client(ctx context.Context) (*s3.Client, error) {
	r.once.Do(func() {
		awsCfg, err := config.LoadDefaultConfig(ctx,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.AccessKey, r.config.SecretKey, "")),
			config.WithRegion("auto"),
		)
		if err != nil {
			logging.GetLogger().Error("r2 config failed", zap.Error(err))
			r.err = err
			return
		}

		r.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.AccountID))
		})
	})
	return r.client, r.err
}

func (r *R2Service) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	client, err := r.r2Client(ctx)
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logging.GetLogger().Info("r2 upload failed", zap.String("key", key), zap.Error(err))
		return "", err
	}

	return fmt.Sprintf("%s/%s", r.config.PublicURL, key), nil
}
