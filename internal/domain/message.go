package domain

import (
	"time"
)

// DefaultContentType используется для вложений без MIME-типа
const DefaultContentType = "application/octet-stream"

// NoSubject показывается вместо пустой темы
const NoSubject = "(No Subject)"

// Message описывает одно входящее письмо
type Message struct {
	ID          string       `json:"id"`          // Идентификатор (UUID)
	FromRaw     string       `json:"from"`        // Заголовок From в исходном виде
	ToRaw       string       `json:"to"`          // Заголовок To в исходном виде
	Address     string       `json:"address"`     // Адрес получателя в нижнем регистре, по нему делится ящик
	Subject     string       `json:"subject"`     // Тема
	Text        string       `json:"text"`        // Текст письма
	HTML        string       `json:"html"`        // HTML-версия
	Attachments []Attachment `json:"attachments"` // В порядке получения
	CreatedAt   time.Time    `json:"receivedAt"`  // Время сохранения, от него считается срок хранения
	Read        bool         `json:"read"`        // Ставится при скачивании и не сбрасывается
}

// Attachment описывает файл из письма.
// Если Omitted, ContentBase64 пустой.
type Attachment struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"contentType"`
	Size          int64  `json:"size"`
	Omitted       bool   `json:"omitted"`
	ContentBase64 string `json:"contentBase64,omitempty"`
}

// DisplaySubject возвращает тему или заглушку для пустой темы
func (m *Message) DisplaySubject() string {
	if m.Subject == "" {
		return NoSubject
	}
	return m.Subject
}

// HasContent сообщает, сохранено ли содержимое вложения.
// У сохранённого пустого файла ContentBase64 тоже пустой.
func (a *Attachment) HasContent() bool {
	return !a.Omitted
}

// StorageTime возвращает t в UTC с точностью до микросекунд, как хранит TIMESTAMPTZ,
// чтобы значение после записи совпадало с прочитанным позже.
func StorageTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
