// Package attachment измеряет входящие вложения и применяет лимит размера.
//
// Слишком большие вложения не отклоняются: метаданные сохраняются, а содержимое
// отбрасывается, поэтому само письмо сохраняется всегда.
package attachment

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/metrics"
)

// DefaultMaxBytes задаёт лимит, если он не настроен (2 МБ)
const DefaultMaxBytes int64 = 2_000_000

// DefaultFilename используется для вложений без имени
const DefaultFilename = "attachment"

// Processor превращает содержимое вложений в записи для хранения
type Processor struct {
	MaxBytes int64
}

// NewProcessor создаёт обработчик с заданным лимитом
func NewProcessor(maxBytes int64) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Processor{MaxBytes: maxBytes}
}

// FromBase64 обрабатывает вложение, пришедшее строкой base64.
// Заявленный положительный размер важнее оценки по длине строки.
func (p *Processor) FromBase64(filename, contentType, contentBase64 string, declared *int64) domain.Attachment {
	size := EstimateBase64Size(contentBase64)
	if declared != nil && *declared > 0 {
		size = *declared
	}

	att := p.newAttachment(filename, contentType, size)
	if !att.Omitted {
		att.ContentBase64 = contentBase64
	}
	return att
}

// FromBytes обрабатывает вложение, полученное как двоичные данные.
// Размер равен числу реально полученных байт.
func (p *Processor) FromBytes(filename, contentType string, data []byte) domain.Attachment {
	att := p.newAttachment(filename, contentType, int64(len(data)))
	if !att.Omitted {
		att.ContentBase64 = base64.StdEncoding.EncodeToString(data)
	}
	return att
}

func (p *Processor) newAttachment(filename, contentType string, size int64) domain.Attachment {
	if filename == "" {
		filename = DefaultFilename
	}
	if contentType == "" {
		contentType = domain.DefaultContentType
	}

	omitted := size > p.MaxBytes
	if omitted {
		metrics.AttachmentsOmitted.Inc()
	}

	return domain.Attachment{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Omitted:     omitted,
	}
}

// EstimateBase64Size возвращает длину декодированных данных без декодирования.
// Пробельные символы игнорируются, результат не бывает отрицательным.
func EstimateBase64Size(s string) int64 {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if normalized == "" {
		return 0
	}

	padding := int64(0)
	switch {
	case strings.HasSuffix(normalized, "=="):
		padding = 2
	case strings.HasSuffix(normalized, "="):
		padding = 1
	}

	size := int64(len(normalized))*3/4 - padding
	if size < 0 {
		return 0
	}
	return size
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]+`)

// maxFilenameLength ограничивает длину очищенного имени
const maxFilenameLength = 60

// SanitizeFilename делает строку безопасной для заголовка Content-Disposition.
// Сохранённое имя не меняется, очистка применяется только при выдаче.
func SanitizeFilename(value, fallback string) string {
	safe := unsafeFilenameChars.ReplaceAllString(value, "_")
	safe = strings.Trim(safe, "_")
	if len(safe) > maxFilenameLength {
		safe = safe[:maxFilenameLength]
	}
	if safe == "" {
		return fallback
	}
	return safe
}
