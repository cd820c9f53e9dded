package storage

import (
	"PropTour/internal/api/config"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// UploadOptions 上传对象的附加属性
type UploadOptions struct {
	ContentType  string
	CacheControl string
}

// Client 对象存储客户端，由入口显式构造并注入，不使用包级单例
type Client struct {
	mc       *minio.Client
	external string
	useSSL   bool
}

// New 初始化 MinIO 客户端并校验连通性
func New(cfg config.MinIOConfig) (*Client, error) {
	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx := context.Background()
	if _, err = mc.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to minio server: %w", err)
	}

	return &Client{
		mc:       mc,
		external: cfg.ExternalEndpoint,
		useSSL:   true,
	}, nil
}

// Upload 上传对象并返回存储键
func (s *Client) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, opts UploadOptions) (string, error) {
	uploadInfo, err := s.mc.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		CacheControl: opts.CacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// Remove 删除对象
func (s *Client) Remove(ctx context.Context, bucket, objectName string) error {
	err := s.mc.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// PublicURL 获取对象的公共访问URL
func (s *Client) PublicURL(bucket, objectName string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.external, bucket, objectName)
}
