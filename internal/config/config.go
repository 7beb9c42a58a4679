package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"SensorHubAPI/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	MQTT         MQTTConfig
	Security     SecurityConfig
	LDAP         LDAPConfig
	Monitor      MonitorConfig
	Notification NotificationConfig
	Reports      ReportsConfig
	Logging      LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Environment     string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxHeaderBytes  int
	MaxBodyBytes    int64
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

type MQTTConfig struct {
	Enabled        bool
	Broker         string
	Port           int
	ClientID       string
	Username       string
	Password       string
	TelemetryTopic string
	HeartbeatTopic string
	CommandTopic   string
	ResultTopic    string
	QoS            byte
	RetainMessages bool
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	AutoReconnect  bool
}

type SecurityConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	JWTIssuer          string
	APIKeyHeader       string
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	RateLimitPerMinute int
	RateLimitBurst     int
	EnableRateLimit    bool
	CronSecret         string
	CronSecretHeader   string
	TOTPIssuer         string
	RequireTOTP        bool
}

type LDAPConfig struct {
	Enabled      bool
	URL          string
	BindTemplate string
	StartTLS     bool
	Timeout      time.Duration
}

type MonitorConfig struct {
	OfflineThreshold time.Duration
	Interval         time.Duration
	AdminEmails      []string
	AlertRetention   time.Duration
}

type NotificationConfig struct {
	Workers      int
	QueueSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
	RatePerSec   float64
	ChannelsFile string
	SMTP         SMTPConfig
	SMS          SMSConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMSConfig struct {
	GatewayURL   string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Sender       string
}

type ReportsConfig struct {
	DefaultWindow time.Duration
	MaxWindow     time.Duration
}

type LoggingConfig struct {
	Level     logger.Level
	Mode      logger.Mode
	FilePath  string
	UseColors bool
}

var requiredEnvVars = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
}

var requiredMQTTEnvVars = []string{
	"MQTT_BROKER",
	"MQTT_PORT",
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	if err := validateRequired(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:       loadServerConfig(),
		Database:     loadDatabaseConfig(),
		MQTT:         loadMQTTConfig(),
		Security:     loadSecurityConfig(),
		LDAP:         loadLDAPConfig(),
		Monitor:      loadMonitorConfig(),
		Notification: loadNotificationConfig(),
		Reports:      loadReportsConfig(),
		Logging:      loadLoggingConfig(),
	}

	return cfg, nil
}

func validateRequired() error {
	var missing []string

	required := requiredEnvVars
	if getEnvAsBool("MQTT_ENABLED", false) {
		required = append(append([]string{}, required...), requiredMQTTEnvVars...)
	}

	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnvAsInt("SERVER_PORT", 8080),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "15s"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", "10s"),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", "30s"),
		MaxHeaderBytes:  getEnvAsInt("MAX_HEADER_BYTES", 1048576),
		MaxBodyBytes:    int64(getEnvAsInt("MAX_BODY_BYTES", 1048576)),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "sensorhub"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "sensorhub"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", "5m"),
		AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
	}
}

func loadMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Enabled:        getEnvAsBool("MQTT_ENABLED", false),
		Broker:         getEnv("MQTT_BROKER", "localhost"),
		Port:           getEnvAsInt("MQTT_PORT", 1883),
		ClientID:       getEnv("MQTT_CLIENT_ID", "sensorhub-api"),
		Username:       getEnv("MQTT_USERNAME", ""),
		Password:       getEnv("MQTT_PASSWORD", ""),
		TelemetryTopic: getEnv("MQTT_TELEMETRY_TOPIC", "devices/+/telemetry"),
		HeartbeatTopic: getEnv("MQTT_HEARTBEAT_TOPIC", "devices/+/heartbeat"),
		CommandTopic:   getEnv("MQTT_COMMAND_TOPIC", "devices/%s/cmd"),
		ResultTopic:    getEnv("MQTT_RESULT_TOPIC", "devices/+/result"),
		QoS:            byte(getEnvAsInt("MQTT_QOS", 1)),
		RetainMessages: getEnvAsBool("MQTT_RETAIN", false),
		KeepAlive:      getEnvAsDuration("MQTT_KEEP_ALIVE", "60s"),
		ConnectTimeout: getEnvAsDuration("MQTT_CONNECT_TIMEOUT", "10s"),
		AutoReconnect:  getEnvAsBool("MQTT_AUTO_RECONNECT", true),
	}
}

func loadSecurityConfig() SecurityConfig {
	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	methods := getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")

	return SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", "sensorhub_secret_change_in_production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		JWTIssuer:          getEnv("JWT_ISSUER", "sensorhub"),
		APIKeyHeader:       getEnv("API_KEY_HEADER", "X-API-Key"),
		CORSAllowedOrigins: strings.Split(origins, ","),
		CORSAllowedMethods: strings.Split(methods, ","),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 50),
		EnableRateLimit:    getEnvAsBool("ENABLE_RATE_LIMIT", true),
		CronSecret:         getEnv("CRON_SECRET", ""),
		CronSecretHeader:   getEnv("CRON_SECRET_HEADER", "X-Cron-Secret"),
		TOTPIssuer:         getEnv("TOTP_ISSUER", "SensorHub"),
		RequireTOTP:        getEnvAsBool("REQUIRE_TOTP", false),
	}
}

func loadLDAPConfig() LDAPConfig {
	return LDAPConfig{
		Enabled:      getEnvAsBool("LDAP_ENABLED", false),
		URL:          getEnv("LDAP_URL", "ldap://localhost:389"),
		BindTemplate: getEnv("LDAP_BIND_TEMPLATE", "uid=%s,ou=people,dc=sensorhub,dc=local"),
		StartTLS:     getEnvAsBool("LDAP_START_TLS", false),
		Timeout:      getEnvAsDuration("LDAP_TIMEOUT", "5s"),
	}
}

func loadMonitorConfig() MonitorConfig {
	return MonitorConfig{
		OfflineThreshold: getEnvAsDuration("DEVICE_OFFLINE_THRESHOLD", "3h"),
		Interval:         getEnvAsDuration("MONITOR_INTERVAL", "0s"),
		AdminEmails:      getEnvAsList("ADMIN_ALERT_EMAILS"),
		AlertRetention:   getEnvAsDuration("ALERT_RETENTION", "2160h"),
	}
}

func loadNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Workers:      getEnvAsInt("NOTIFY_WORKERS", 4),
		QueueSize:    getEnvAsInt("NOTIFY_QUEUE_SIZE", 1000),
		MaxAttempts:  getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 3),
		RetryBackoff: getEnvAsDuration("NOTIFY_RETRY_BACKOFF", "2s"),
		RatePerSec:   getEnvAsFloat("NOTIFY_RATE_PER_SEC", 10),
		ChannelsFile: getEnv("NOTIFY_CHANNELS_FILE", ""),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "alerts@sensorhub.local"),
		},
		SMS: SMSConfig{
			GatewayURL:   getEnv("SMS_GATEWAY_URL", ""),
			TokenURL:     getEnv("SMS_TOKEN_URL", ""),
			ClientID:     getEnv("SMS_CLIENT_ID", ""),
			ClientSecret: getEnv("SMS_CLIENT_SECRET", ""),
			Scopes:       getEnvAsList("SMS_SCOPES"),
			Sender:       getEnv("SMS_SENDER", "SensorHub"),
		},
	}
}

func loadReportsConfig() ReportsConfig {
	return ReportsConfig{
		DefaultWindow: getEnvAsDuration("REPORT_DEFAULT_WINDOW", "720h"),
		MaxWindow:     getEnvAsDuration("REPORT_MAX_WINDOW", "8784h"),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:     logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
		Mode:      logger.ParseMode(getEnv("LOG_MODE", "normal")),
		FilePath:  getEnv("LOG_FILE_PATH", ""),
		UseColors: getEnvAsBool("LOG_USE_COLORS", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

func (c *Config) GetMQTTBroker() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTT.Broker, c.MQTT.Port)
}

func (c *Config) Validate() error {
	var errors []string

	if c.Database.Password == "" {
		errors = append(errors, "DB_PASSWORD cannot be empty")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		errors = append(errors, "DB_PORT must be between 1 and 65535")
	}

	if c.MQTT.Enabled && (c.MQTT.Port < 1 || c.MQTT.Port > 65535) {
		errors = append(errors, "MQTT_PORT must be between 1 and 65535")
	}

	if len(c.Security.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}

	if c.Security.CronSecret == "" {
		errors = append(errors, "CRON_SECRET cannot be empty")
	}

	if c.Monitor.OfflineThreshold <= 0 {
		errors = append(errors, "DEVICE_OFFLINE_THRESHOLD must be positive")
	}

	if c.Notification.Workers < 1 {
		errors = append(errors, "NOTIFY_WORKERS must be at least 1")
	}

	if c.Notification.MaxAttempts < 1 {
		errors = append(errors, "NOTIFY_MAX_ATTEMPTS must be at least 1")
	}

	if c.Reports.DefaultWindow <= 0 || c.Reports.MaxWindow < c.Reports.DefaultWindow {
		errors = append(errors, "REPORT_MAX_WINDOW must be at least REPORT_DEFAULT_WINDOW")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (c *Config) Print() {
	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║              SensorHub API - Configuration               ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Printf("Environment:     %s\n", c.Server.Environment)
	fmt.Printf("Server:          %s:%d\n", c.Server.Host, c.Server.Port)
	fmt.Printf("Database:        %s:%d/%s\n", c.Database.Host, c.Database.Port, c.Database.Database)
	if c.MQTT.Enabled {
		fmt.Printf("MQTT Broker:     %s:%d\n", c.MQTT.Broker, c.MQTT.Port)
	} else {
		fmt.Println("MQTT Broker:     disabled")
	}
	fmt.Printf("LDAP:            %v\n", c.LDAP.Enabled)
	fmt.Printf("Offline after:   %s\n", c.Monitor.OfflineThreshold)
	fmt.Printf("Notify workers:  %d\n", c.Notification.Workers)
	fmt.Println("──────────────────────────────────────────────────────────")
}
