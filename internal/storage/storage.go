package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey = errors.New("invalid storage key")
	ErrNotFound   = errors.New("file not found")
)

// Storage - хранилище файлов (документы, портфолио). Ключи всегда
// относительные, со слешами: documents/<user>/<uuid>.pdf
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL - публичный адрес файла
	GetURL(ctx context.Context, key string) (string, error)
	// GetSignedURL - временная ссылка на приватный файл
	GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // local
	BaseURL    string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // R2 или совместимый с S3
	UseSSL     bool
	PublicRead bool
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// DocumentKey строит ключ для загруженного документа пользователя
func DocumentKey(userID, ext string) string {
	return fmt.Sprintf("documents/%s/%s%s", userID, uuid.NewString(), normalizeExt(ext))
}

// PortfolioKey - ключ варианта картинки портфолио (medium, thumbnail).
// Варианты одной картинки делят imageID.
func PortfolioKey(userID, imageID, variant, ext string) string {
	return fmt.Sprintf("portfolio/%s/%s_%s%s", userID, imageID, variant, normalizeExt(ext))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// cleanKey отсекает абсолютные пути и выход за пределы хранилища
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
