package config

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// FallbackDomain отдаётся, если домены нигде не настроены
const FallbackDomain = "ysweb.biz.id"

// Config хранит конфигурацию приложения.
// Загружается один раз при старте и передаётся по указателю, после этого не меняется.
type Config struct {
	Server   ServerConfig   // HTTP и SMTP
	Database DatabaseConfig // PostgreSQL
	Redis    RedisConfig    // Сессии и ограничение попыток входа
	Mail     MailConfig     // Срок хранения, вложения и домены
	Admin    AdminConfig    // Пароль админа, секрет cron и блокировка входа
	External ExternalConfig // WHOIS и адреса уведомлений
	Jobs     JobsConfig     // Фоновые задачи
	Log      LogConfig
}

// ServerConfig настраивает серверы
type ServerConfig struct {
	HTTPPort        int  `envconfig:"HTTP_PORT" default:"8080"`
	SMTPPort        int  `envconfig:"SMTP_PORT" default:"2525"`
	SMTPEnabled     bool `envconfig:"SMTP_ENABLED" default:"false"`
	MaxRequestBytes int  `envconfig:"MAX_REQUEST_BYTES" default:"26214400"` // Лимит тела вебхука (25 МБ)
}

// DatabaseConfig настраивает подключение к PostgreSQL.
// Если задан URL, отдельные поля не используются.
type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"vaultmail"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// RedisConfig настраивает подключение к Redis
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// MailConfig настраивает обработку писем
type MailConfig struct {
	RetentionSeconds   int        `envconfig:"RETENTION_SECONDS" default:"86400"`      // TTL по умолчанию (24 часа)
	AttachmentMaxBytes int64      `envconfig:"ATTACHMENT_MAX_BYTES" default:"2000000"` // Вложения больше лимита не сохраняются
	DefaultDomains     DomainList `envconfig:"DEFAULT_DOMAINS"`                        // Список через запятую или JSON-массив
}

// AdminConfig настраивает админку
type AdminConfig struct {
	Password         string        `envconfig:"ADMIN_PASSWORD"` // Открытый текст или хэш bcrypt, пустое значение отключает вход
	CronSecret       string        `envconfig:"CRON_SECRET"`
	LoginMaxAttempts int           `envconfig:"LOGIN_MAX_ATTEMPTS" default:"3"`
	LoginLockout     time.Duration `envconfig:"LOGIN_LOCKOUT" default:"5m"`
}

// ExternalConfig настраивает внешние HTTP-сервисы
type ExternalConfig struct {
	Timeout         time.Duration `envconfig:"EXTERNAL_TIMEOUT" default:"10s"`
	WhoisURL        string        `envconfig:"WHOIS_URL" default:"https://whois-search.vercel.app/api/lookup"`
	TelegramAPIURL  string        `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	SlackWebhookURL string        `envconfig:"SLACK_WEBHOOK_URL"`
}

// JobsConfig настраивает фоновые задачи
type JobsConfig struct {
	SweepInterval         time.Duration `envconfig:"SWEEP_INTERVAL" default:"30s"`
	DomainRefreshInterval time.Duration `envconfig:"DOMAIN_REFRESH_INTERVAL" default:"0"` // 0 отключает задачу
}

// LogConfig настраивает логирование
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load читает конфигурацию из переменных окружения.
// Сначала загружается файл .env из рабочей директории, если он есть.
func Load() (*Config, error) {
	// Файла .env может не быть, хватает окружения процесса
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Mail.DefaultDomains) == 0 {
		cfg.Mail.DefaultDomains = DomainList{FallbackDomain}
	}
	if cfg.Mail.RetentionSeconds <= 0 || cfg.Mail.RetentionSeconds > math.MaxInt32 {
		return nil, fmt.Errorf("RETENTION_SECONDS must be between 1 and %d, got %d", math.MaxInt32, cfg.Mail.RetentionSeconds)
	}

	return &cfg, nil
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return c.URL
		}
		// Для URL без имени базы берём DB_NAME
		if strings.Trim(u.Path, "/") == "" && c.Name != "" {
			u.Path = "/" + c.Name
		}
		return u.String()
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// DomainList хранит список доменов в нижнем регистре без повторов.
// Читается из "a.com, b.com" или `["a.com","b.com"]`.
type DomainList []string

// Decode реализует envconfig.Decoder
func (d *DomainList) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*d = nil
		return nil
	}

	var items []string
	if strings.HasPrefix(value, "[") {
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			return fmt.Errorf("invalid domain list: %w", err)
		}
	} else {
		items = strings.Split(value, ",")
	}

	*d = NormalizeDomains(items)
	return nil
}

// NormalizeDomains приводит домены к нижнему регистру, обрезает пробелы и убирает пустые и повторы, сохраняя порядок
func NormalizeDomains(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		domain := strings.ToLower(strings.TrimSpace(item))
		if domain == "" {
			continue
		}
		if _, ok := seen[domain]; ok {
			continue
		}
		seen[domain] = struct{}{}
		result = append(result, domain)
	}
	return result
}
