// Package mailaddr извлекает адреса из произвольного текста заголовков.
package mailaddr

import (
	"regexp"
	"strings"
)

// addressPattern находит адреса в строках вида `"Jane Doe" <jane@x.com>`.
// Он уже, чем RFC 5322.
var addressPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+`)

// Extract возвращает первый найденный в s адрес в нижнем регистре.
// Второй результат false, если адреса нет.
func Extract(s string) (string, bool) {
	match := addressPattern.FindString(s)
	if match == "" {
		return "", false
	}
	return strings.ToLower(match), true
}

// Domain возвращает домен первого адреса в s в нижнем регистре или "".
func Domain(s string) string {
	addr, ok := Extract(s)
	if !ok {
		return ""
	}
	return addr[strings.LastIndex(addr, "@")+1:]
}

// SenderInfo описывает, как показать отправителя человеку
type SenderInfo struct {
	Name  string // Имя отправителя или то, что его заменяет
	Email string // Найденный адрес, пустой если адреса нет
	Label string // Подпись вида "Имя <адрес>"
}

// Sender строит подпись отправителя из заголовка From.
func Sender(value string) SenderInfo {
	email, found := Extract(value)
	if !found {
		return SenderInfo{Name: firstNonEmpty(unquote(value), value), Label: value}
	}

	trimmed := strings.TrimSpace(value)
	name := ""
	if i := strings.Index(trimmed, "<"); i != -1 {
		name = unquote(trimmed[:i])
	}
	fallback := unquote(trimmed)
	if sameAddress(fallback, email) {
		fallback = email
	}

	info := SenderInfo{
		Name:  firstNonEmpty(name, fallback, email, value),
		Email: email,
	}

	switch {
	case name != "" && !strings.EqualFold(name, email):
		info.Label = name + " <" + email + ">"
	case name == "" && fallback != email:
		info.Label = fallback + " <" + email + ">"
	default:
		info.Label = info.Name
	}
	return info
}

// unquote убирает пробелы и кавычки по краям
func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
}

// sameAddress считает "<a@b.c>" и "A@B.C" тем же адресом a@b.c
func sameAddress(display, email string) bool {
	display = strings.TrimSuffix(strings.TrimPrefix(display, "<"), ">")
	return strings.EqualFold(display, email)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
