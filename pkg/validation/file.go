package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"family-registry/config"
)

// ValidateFile проверяет размер и MIME-тип файла по правилам config.UploadContexts.
// Возвращает определённый MIME-тип.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) (string, error) {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return "", fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return "", fmt.Errorf("размер файла (%.2f MB) превышает лимит в %d MB", float64(fileHeader.Size)/1024/1024, rules.MaxSizeMB)
		}
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("ошибка чтения файла")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("ошибка обработки файла")
	}

	mimeType := http.DetectContentType(buffer[:n])
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return "", fmt.Errorf("недопустимый формат файла: %s", mimeType)
	}

	return mimeType, nil
}
