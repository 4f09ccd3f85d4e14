package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Принятые письма
	MessagesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultmail_messages_ingested_total",
			Help: "Total number of inbound messages stored",
		},
		[]string{"source"}, // source: json, form, smtp
	)

	// Вложения, содержимое которых не сохранено из-за размера
	AttachmentsOmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vaultmail_attachments_omitted_total",
			Help: "Total number of attachments stored without content because of their size",
		},
	)

	// Отправка уведомлений
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultmail_notifications_total",
			Help: "Total number of new-message notifications by sink and outcome",
		},
		[]string{"sink", "status"}, // status: sent, failed, skipped
	)

	// Письма, удалённые очисткой
	MessagesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vaultmail_messages_expired_total",
			Help: "Total number of messages deleted by the retention sweep",
		},
	)

	// Запросы WHOIS
	WhoisLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultmail_whois_lookups_total",
			Help: "Total number of WHOIS expiration lookups by outcome",
		},
		[]string{"status"}, // status: found, empty
	)
)

// IncrementIngested учитывает сохранённое письмо
func IncrementIngested(source string) {
	MessagesIngested.WithLabelValues(source).Inc()
}

// RecordNotification учитывает попытку уведомления
func RecordNotification(sink, status string) {
	Notifications.WithLabelValues(sink, status).Inc()
}

// RecordWhoisLookup учитывает, нашёлся ли срок домена
func RecordWhoisLookup(found bool) {
	status := "empty"
	if found {
		status = "found"
	}
	WhoisLookups.WithLabelValues(status).Inc()
}
