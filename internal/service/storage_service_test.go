package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"course_market_backend/internal/config"
	"course_market_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mp4Header = append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypmp42\x00\x00\x00\x00mp42isom")...)
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

// fileHeader 构造一个 multipart 文件头
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[field][0]
}

func newLocalStorage(t *testing.T) (*StorageService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = dir
	return NewStorageService(cfg), dir
}

func TestSaveAttachmentLocal(t *testing.T) {
	storage, dir := newLocalStorage(t)
	ctx := context.Background()

	video, err := storage.SaveAttachment(ctx, AttachmentVideo, fileHeader(t, "video", "Intro.MP4", mp4Header))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(video.Location, "/uploads/courses/video/"))
	assert.True(t, strings.HasSuffix(video.Key, ".mp4"))

	stored, err := os.ReadFile(filepath.Join(dir, video.Key))
	require.NoError(t, err)
	assert.Equal(t, mp4Header, stored)

	doc, err := storage.SaveAttachment(ctx, AttachmentDocument, fileHeader(t, "pdf", "notes.pdf", pdfHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.Location, "/uploads/courses/document/"))

	storage.Cleanup(ctx, video, nil, doc)
	_, err = os.Stat(filepath.Join(dir, video.Key))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, doc.Key))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveAttachmentRejectsWrongType(t *testing.T) {
	storage, _ := newLocalStorage(t)
	ctx := context.Background()

	_, err := storage.SaveAttachment(ctx, AttachmentVideo, fileHeader(t, "video", "intro.exe", mp4Header))
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	// 扩展名合法但内容不符
	_, err = storage.SaveAttachment(ctx, AttachmentDocument, fileHeader(t, "pdf", "notes.pdf", []byte("plain text, not a pdf")))
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = storage.SaveAttachment(ctx, AttachmentVideo, fileHeader(t, "video", "intro.mp4", pdfHeader))
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestNewStorageServiceFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageMinio
	cfg.Storage.MinioEndpoint = "not a valid host"
	cfg.Storage.LocalPath = t.TempDir()

	storage := NewStorageService(cfg)
	_, ok := storage.Store.(*LocalStore)
	assert.True(t, ok)
}

type brokenReader struct{ sent bool }

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.sent {
		return 0, errors.New("connection reset")
	}
	r.sent = true
	return copy(p, mp4Header), nil
}

func TestLocalStoreRemovesPartialFile(t *testing.T) {
	store := &LocalStore{Root: t.TempDir()}
	key := "courses/video/20260101/partial.mp4"

	err := store.Put(context.Background(), key, &brokenReader{}, int64(len(mp4Header))*2, util.MimeVideo)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(store.Root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveLocations(t *testing.T) {
	storage, dir := newLocalStorage(t)
	ctx := context.Background()

	video, err := storage.SaveAttachment(ctx, AttachmentVideo, fileHeader(t, "video", "intro.mp4", mp4Header))
	require.NoError(t, err)
	outside := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	storage.RemoveLocations(ctx, video.Location, "https://cdn.example.com/intro.mp4", "/uploads/../keep.txt", "/uploads/keep.txt")

	_, err = os.Stat(filepath.Join(dir, video.Key))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestStoreKeyOf(t *testing.T) {
	local := &LocalStore{Root: t.TempDir()}
	key, ok := local.KeyOf(local.Location("courses/document/20260101/a.pdf"))
	assert.True(t, ok)
	assert.Equal(t, "courses/document/20260101/a.pdf", key)

	cfg := &config.StorageConfig{MinioEndpoint: "localhost:9000", MinioBucket: "courses"}
	minioStore, err := NewMinioStore(cfg)
	require.NoError(t, err)
	loc := minioStore.Location("courses/video/20260101/b.mp4")
	assert.Equal(t, "http://localhost:9000/courses/courses/video/20260101/b.mp4", loc)
	key, ok = minioStore.KeyOf(loc)
	assert.True(t, ok)
	assert.Equal(t, "courses/video/20260101/b.mp4", key)

	_, ok = minioStore.KeyOf("/uploads/courses/video/20260101/b.mp4")
	assert.False(t, ok)
}
