// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix - префикс URL файлов хранилища. Сам каталог наружу не раздаётся,
// файлы отдаются через защищённый маршрут документов.
const PublicPrefix = "/uploads/"

var ErrOutsideStorage = errors.New("путь файла вне хранилища")

type FileStorageInterface interface {
	// Save возвращает публичный URL сохранённого файла.
	Save(file io.Reader, originalFileName string, prefix string) (fileURL string, err error)
	Delete(fileURL string) error
	Owns(fileURL string) bool
	// Path переводит URL хранилища в путь на диске.
	Path(fileURL string) (string, error)
}

type LocalFileStorage struct {
	basePath string
	now      func() time.Time
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	return &LocalFileStorage{basePath: basePath, now: time.Now}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	now := s.now()
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)

	relDir := filepath.Join(prefix, now.Format("2006/01/02"))
	fullDirPath := filepath.Join(s.basePath, relDir)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(fullDirPath, uniqueFileName)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}

	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(fullPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	return PublicPrefix + filepath.ToSlash(filepath.Join(relDir, uniqueFileName)), nil
}

// Owns сообщает, указывает ли URL на файл этого хранилища.
func (s *LocalFileStorage) Owns(fileURL string) bool {
	return strings.HasPrefix(fileURL, PublicPrefix)
}

func (s *LocalFileStorage) Path(fileURL string) (string, error) {
	if !s.Owns(fileURL) {
		return "", ErrOutsideStorage
	}
	relativePath := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(fileURL, PublicPrefix)))
	if relativePath == "." || strings.HasPrefix(relativePath, "..") || filepath.IsAbs(relativePath) {
		return "", ErrOutsideStorage
	}
	return filepath.Join(s.basePath, relativePath), nil
}

// Delete удаляет файл по URL хранилища. Отсутствующий файл не считается ошибкой.
func (s *LocalFileStorage) Delete(fileURL string) error {
	fullPath, err := s.Path(fileURL)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
