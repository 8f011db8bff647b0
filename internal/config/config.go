package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	PublishModeGateway = "gateway"
	PublishModeQueue   = "queue"

	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Planner struct {
		BaseURL        string `env:"BASE_URL" envDefault:"http://localhost:8000"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"15"`
	} `envPrefix:"PLANNER_"`
	Database struct {
		DSN            string `env:"DSN,required,notEmpty"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Session struct {
		Backend string `env:"BACKEND" envDefault:"redis"` // redis 或 memory
		TTL     int    `env:"TTL" envDefault:"480"`       // 分钟
	} `envPrefix:"SESSION_"`
	Calendar struct {
		TimeZone string `env:"TIME_ZONE" envDefault:"Local"`
		Name     string `env:"NAME" envDefault:"InstallPlanner"`
	} `envPrefix:"CALENDAR_"`
	Publish struct {
		Mode  string `env:"MODE" envDefault:"gateway"`
		Title string `env:"TITLE" envDefault:"Weekly Installation Schedule"`
		// 为空时使用 PLANNER_BASE_URL + /export/ics
		ICSURL         string `env:"ICS_URL"`
		WebhookTimeout int    `env:"WEBHOOK_TIMEOUT" envDefault:"5"`
	} `envPrefix:"PUBLISH_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		Queue          string `env:"QUEUE" envDefault:"publish_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		DigestRecipients []string `env:"DIGEST_RECIPIENTS" envSeparator:","`
		SMTP             struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
		TemplatePath string `env:"TEMPLATE_PATH" envDefault:"./templates/publish_digest_email.html"`
	} `envPrefix:"EMAIL_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Publish.Mode {
	case PublishModeGateway:
	case PublishModeQueue:
		if cfg.RabbitMQ.DSN == "" {
			return errors.New("PUBLISH_MODE=queue 需要设置 RABBITMQ_DSN")
		}
	default:
		return fmt.Errorf("未知的 PUBLISH_MODE: %s", cfg.Publish.Mode)
	}

	switch cfg.Session.Backend {
	case SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("未知的 SESSION_BACKEND: %s", cfg.Session.Backend)
	}

	if cfg.Session.TTL <= 0 {
		return errors.New("SESSION_TTL 必须大于 0")
	}

	return nil
}

// ICSURL 返回发布消息中附带的日历下载地址
func (cfg *Config) ICSURL() string {
	if cfg.Publish.ICSURL != "" {
		return cfg.Publish.ICSURL
	}
	return cfg.Planner.BaseURL + "/export/ics"
}

// SMTPEnabled 表示 publisher 是否需要发送摘要邮件
func (cfg *Config) SMTPEnabled() bool {
	return cfg.Email.SMTP.Host != "" && len(cfg.Email.DigestRecipients) > 0
}
