package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит конфигурацию приложения
type Config struct {
	RunAddress  string        // Адрес и порт запуска сервиса
	DatabaseURI string        // URI подключения к БД
	FrontendURL string        // Базовый URL фронтенда (redirect после оплаты)
	JWTSecret   string        // Секретный ключ для JWT
	JWTTokenTTL time.Duration // Время жизни JWT токена
	LogLevel    string        // Уровень логирования

	// Платежный шлюз
	GatewayAddress   string        // Базовый адрес API шлюза
	GatewayKeyID     string        // Идентификатор ключа шлюза
	GatewayKeySecret string        // Секрет ключа шлюза (подпись платежей)
	WebhookSecret    string        // Секрет подписи вебхуков
	GatewayTimeout   time.Duration // Таймаут одного обращения к шлюзу

	// SMTP (опционально, без него уведомления только в лог)
	SMTPAddress  string
	SMTPUsername string
	SMTPPassword string

	// Ключ шифрования платежных реквизитов (hex, 32 байта).
	// Пусто — реквизиты хранятся открытым текстом.
	AccountDetailsKey string

	// Worker Pool конфигурация
	WorkerPoolSize     int           // Количество воркеров
	WorkerQueueSize    int           // Размер очереди задач
	WorkerScanInterval time.Duration // Интервал сканирования фоновых задач

	// Политика денежного ядра
	PolicyFile string // Путь к JSON с политикой; пусто — дефолты
}

// Load загружает конфигурацию из переменных окружения и флагов
// Приоритет: env переменные > флаги > дефолтные значения
func Load() (*Config, error) {
	cfg := &Config{
		JWTTokenTTL:        24 * time.Hour,
		LogLevel:           "info",
		GatewayTimeout:     15 * time.Second,
		WorkerPoolSize:     3,
		WorkerQueueSize:    100,
		WorkerScanInterval: 10 * time.Second,
	}

	// Определяем флаги
	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.GatewayAddress, "g", "", "payment gateway address")
	flag.StringVar(&cfg.PolicyFile, "p", "", "policy file path")
	flag.Parse()

	// Переменные окружения имеют приоритет над флагами
	if envRunAddr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = envRunAddr
	}

	if envDBURI, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = envDBURI
	}

	if envGatewayAddr, ok := os.LookupEnv("GATEWAY_ADDRESS"); ok {
		cfg.GatewayAddress = envGatewayAddr
	}

	if envPolicyFile, ok := os.LookupEnv("POLICY_FILE"); ok {
		cfg.PolicyFile = envPolicyFile
	}

	cfg.FrontendURL = os.Getenv("FRONTEND_URL")

	// Секреты только из env, не из флагов
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.GatewayKeyID = os.Getenv("GATEWAY_KEY_ID")
	cfg.GatewayKeySecret = os.Getenv("GATEWAY_KEY_SECRET")
	cfg.WebhookSecret = os.Getenv("WEBHOOK_SECRET")

	// SMTP опционален
	cfg.SMTPAddress = os.Getenv("SMTP_ADDRESS")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.AccountDetailsKey = os.Getenv("ACCOUNT_DETAILS_KEY")

	// Уровень логирования
	if envLogLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	// Worker Pool конфигурация из env
	if envWorkerPoolSize, ok := os.LookupEnv("WORKER_POOL_SIZE"); ok {
		if size, err := strconv.Atoi(envWorkerPoolSize); err == nil && size > 0 {
			cfg.WorkerPoolSize = size
		}
	}

	if envWorkerQueueSize, ok := os.LookupEnv("WORKER_QUEUE_SIZE"); ok {
		if size, err := strconv.Atoi(envWorkerQueueSize); err == nil && size > 0 {
			cfg.WorkerQueueSize = size
		}
	}

	if envScanInterval, ok := os.LookupEnv("WORKER_SCAN_INTERVAL"); ok {
		if interval, err := time.ParseDuration(envScanInterval); err == nil && interval > 0 {
			cfg.WorkerScanInterval = interval
		}
	}

	if envGatewayTimeout, ok := os.LookupEnv("GATEWAY_TIMEOUT"); ok {
		if timeout, err := time.ParseDuration(envGatewayTimeout); err == nil && timeout > 0 {
			cfg.GatewayTimeout = timeout
		}
	}

	// Валидация обязательных параметров
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI is required (use -d flag or DATABASE_URI env)")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("gateway address is required (use -g flag or GATEWAY_ADDRESS env)")
	}

	for name, value := range map[string]string{
		"JWT_SECRET":         cfg.JWTSecret,
		"GATEWAY_KEY_ID":     cfg.GatewayKeyID,
		"GATEWAY_KEY_SECRET": cfg.GatewayKeySecret,
		"WEBHOOK_SECRET":     cfg.WebhookSecret,
		"FRONTEND_URL":       cfg.FrontendURL,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s env is required", name)
		}
	}

	return cfg, nil
}
