package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"plantstore/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

// 商品画像をMinIOに置く
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewImageStore(cfg config.Config) (*ImageStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &ImageStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(cfg.MinioPublicURL, "/"),
	}, nil
}

// EnsureBucket は起動時に一度呼ぶ
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Upload は公開URLと削除用のキーを返す
func (s *ImageStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, string, error) {
	key, err := ObjectKey(contentType)
	if err != nil {
		return "", "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}
	return s.publicURL + "/" + key, key, nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// ObjectKey はcontent typeから plants/<uuid>.<ext> を作る
func ObjectKey(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := imageExt[ct]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return "plants/" + uuid.NewString() + ext, nil
}
