package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// RequestIDKey gin 上下文与响应头中的请求 ID
const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// 附件相关常量
const (
	MimeVideo = "video/"
	MimePDF   = "application/pdf"

	MaxUploadSize = 512 << 20
)

var (
	AllowedVideoExtensions    = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedDocumentExtensions = []string{".pdf"}
)
