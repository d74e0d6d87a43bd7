package service

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// AttachmentStore 附件后端：按 key 存取对象，并在 key 与课程记录中的地址之间转换
type AttachmentStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	Location(key string) string
	KeyOf(location string) (string, bool)
}

// LocalStore 写入本地目录，由路由以 /uploads 静态暴露
type LocalStore struct {
	Root string
}

const localURLPrefix = "/uploads/"

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	dst := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(s.Root, filepath.FromSlash(key)))
}

func (s *LocalStore) Location(key string) string {
	return localURLPrefix + key
}

func (s *LocalStore) KeyOf(location string) (string, bool) {
	return keyAfter(location, localURLPrefix)
}

// MinioStore 对象存储于 MinIO 桶内
type MinioStore struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.Bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	return s.Client.RemoveObject(ctx, s.Bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStore) prefix() string {
	return strings.TrimSuffix(s.Client.EndpointURL().String(), "/") + "/" + s.Bucket + "/"
}

func (s *MinioStore) Location(key string) string {
	return s.prefix() + key
}

func (s *MinioStore) KeyOf(location string) (string, bool) {
	return keyAfter(location, s.prefix())
}

// OSSStore 对象存储于阿里云 OSS 桶内
type OSSStore struct {
	Bucket   *oss.Bucket
	Endpoint string
}

func NewOSSStore(cfg *config.StorageConfig) (*OSSStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStore{Bucket: bucket, Endpoint: cfg.OSSEndpoint}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.Bucket.PutObject(key, r, oss.ContentType(contentType), oss.ContentLength(size), oss.WithContext(ctx))
}

func (s *OSSStore) Remove(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) prefix() string {
	host := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/", s.Bucket.BucketName, host)
}

func (s *OSSStore) Location(key string) string {
	return s.prefix() + key
}

func (s *OSSStore) KeyOf(location string) (string, bool) {
	return keyAfter(location, s.prefix())
}

// keyAfter 只接受本服务生成的 courses/ 前缀 key，且不允许跳出目录
func keyAfter(location, prefix string) (string, bool) {
	if !strings.HasPrefix(location, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(location, prefix)
	if !strings.HasPrefix(key, "courses/") || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// StorageService 附件上传组件，对外只暴露附件位置字符串
type StorageService struct {
	Store AttachmentStore
}

func NewStorageService(cfg *config.Config) *StorageService {
	var store AttachmentStore
	switch cfg.Storage.Type {
	case util.StorageMinio:
		if s, err := NewMinioStore(&cfg.Storage); err == nil {
			store = s
		} else {
			logger.Log.Warn("MinIO unavailable, falling back to local storage", zap.Error(err))
		}
	case util.StorageOSS:
		if s, err := NewOSSStore(&cfg.Storage); err == nil {
			store = s
		} else {
			logger.Log.Warn("OSS unavailable, falling back to local storage", zap.Error(err))
		}
	}

	if store == nil {
		store = &LocalStore{Root: cfg.Storage.LocalPath}
	}

	return &StorageService{Store: store}
}

type AttachmentKind string

const (
	AttachmentVideo    AttachmentKind = "video"
	AttachmentDocument AttachmentKind = "document"
)

// StoredAttachment Location 写入课程记录，Key 用于失败时清理
type StoredAttachment struct {
	Location string
	Key      string
}

func (k AttachmentKind) rules() (extensions []string, mimeTypes []string) {
	if k == AttachmentVideo {
		return util.AllowedVideoExtensions, []string{util.MimeVideo}
	}
	return util.AllowedDocumentExtensions, []string{util.MimePDF}
}

// SaveAttachment 校验扩展名与文件内容后上传，返回附件位置
func (s *StorageService) SaveAttachment(ctx context.Context, kind AttachmentKind, file *multipart.FileHeader) (*StoredAttachment, error) {
	extensions, mimeTypes := kind.rules()
	if !util.HasAllowedExtension(file.Filename, extensions) {
		return nil, util.Validation(fmt.Sprintf("Unsupported %s file: %s", kind, file.Filename))
	}
	if file.Size > util.MaxUploadSize {
		return nil, util.Validation(fmt.Sprintf("%s file is too large", kind))
	}

	src, err := file.Open()
	if err != nil {
		return nil, util.Internal(err)
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, mimeTypes)
	if err != nil {
		return nil, util.Validation(fmt.Sprintf("Invalid %s content", kind))
	}
	// 重置读取指针
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, util.Internal(err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("courses/%s/%s/%s%s", kind, time.Now().Format("20060102"), uuid.NewString(), ext)

	if err := s.Store.Put(ctx, key, src, file.Size, mimeType); err != nil {
		return nil, util.Internal(err)
	}

	return &StoredAttachment{Location: s.Store.Location(key), Key: key}, nil
}

// Cleanup 尽力删除已上传的附件，错误只记录日志
func (s *StorageService) Cleanup(ctx context.Context, stored ...*StoredAttachment) {
	for _, a := range stored {
		if a == nil {
			continue
		}
		s.remove(ctx, a.Key)
	}
}

// RemoveLocations 删除被替换的旧附件；非本后端生成的地址直接跳过
func (s *StorageService) RemoveLocations(ctx context.Context, locations ...string) {
	for _, loc := range locations {
		key, ok := s.Store.KeyOf(loc)
		if !ok {
			logger.Log.Debug("Skip foreign attachment location", zap.String("location", loc))
			continue
		}
		s.remove(ctx, key)
	}
}

func (s *StorageService) remove(ctx context.Context, key string) {
	if err := s.Store.Remove(ctx, key); err != nil {
		logger.Log.Warn("Failed to remove attachment", zap.String("key", key), zap.Error(err))
	}
}
