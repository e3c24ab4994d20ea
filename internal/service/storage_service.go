package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"score_predictor_backend/internal/config"
	"score_predictor_backend/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/go-resty/resty/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 定义模型文件的读取接口
type StorageProvider interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Describe() string
}

// LocalStorageProvider 本地目录
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	clean := filepath.Clean("/" + name)
	return os.Open(filepath.Join(p.Config.LocalPath, clean))
}

func (p *LocalStorageProvider) Describe() string {
	return "file://" + p.Config.LocalPath
}

// HTTPStorageProvider 通过 HTTP 拉取，例如静态站点上的 /tfjs_model
type HTTPStorageProvider struct {
	Config *config.StorageConfig
	Client *resty.Client
}

func NewHTTPStorageProvider(cfg *config.StorageConfig) *HTTPStorageProvider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.HTTPBaseURL, "/")).
		SetTimeout(30 * time.Second)
	return &HTTPStorageProvider{Config: cfg, Client: client}
}

func (p *HTTPStorageProvider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := p.Client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/" + strings.TrimLeft(name, "/"))
	if err != nil {
		return nil, err
	}
	body := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %d", name, resp.StatusCode())
	}
	return body, nil
}

func (p *HTTPStorageProvider) Describe() string {
	return p.Config.HTTPBaseURL
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := p.Client.GetObject(ctx, p.Config.MinioBucket, strings.TrimLeft(name, "/"), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (p *MinioStorageProvider) Describe() string {
	return "minio://" + p.Config.MinioBucket
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Bucket *oss.Bucket
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Bucket: bucket}, nil
}

func (p *OSSStorageProvider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return p.Bucket.GetObject(strings.TrimLeft(name, "/"), oss.WithContext(ctx))
}

func (p *OSSStorageProvider) Describe() string {
	return "oss://" + p.Config.OSSBucket
}

// StorageService 为模型加载提供统一的文件访问
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	var (
		provider StorageProvider
		err      error
	)
	switch cfg.Type {
	case util.StorageLocal, "":
		provider = &LocalStorageProvider{Config: cfg}
	case util.StorageHTTP:
		if cfg.HTTPBaseURL == "" {
			return nil, fmt.Errorf("storage.http_base_url is required for http storage")
		}
		provider = NewHTTPStorageProvider(cfg)
	case util.StorageMinio:
		provider, err = NewMinioStorageProvider(cfg)
	case util.StorageOSS:
		provider, err = NewOSSStorageProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return &StorageService{Provider: provider}, nil
}

func (s *StorageService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.Provider.Open(ctx, name)
}

func (s *StorageService) Describe() string {
	return s.Provider.Describe()
}
