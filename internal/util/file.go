package util

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalidFileType = errors.New("invalid file type")

// ValidateMimeType 根据文件内容检测 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "video/", "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", err
	}

	for m := mime; m != nil; m = m.Parent() {
		for _, allowed := range allowedTypes {
			if strings.HasPrefix(m.String(), allowed) || m.Is(allowed) {
				return m.String(), nil
			}
		}
	}
	return mime.String(), ErrInvalidFileType
}

// HasAllowedExtension 校验扩展名（忽略大小写）
func HasAllowedExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range allowed {
		if ext == e {
			return true
		}
	}
	return false
}
