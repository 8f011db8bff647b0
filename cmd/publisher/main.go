package main

import (
	"context"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/publish"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}
	if cfg.RabbitMQ.DSN == "" {
		logger.Error("publisher 需要设置 RABBITMQ_DSN")
		return
	}

	/**********************************************
	 * 创建邮件客户端（可选）
	 **********************************************/
	var mailer publish.Mailer
	digest := publish.DigestConfig{
		From:       cfg.Email.SMTP.Username,
		Recipients: cfg.Email.DigestRecipients,
	}
	if cfg.SMTPEnabled() {
		client, err := mail.NewClient(cfg.Email.SMTP.Host,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithSSL(),
			mail.WithPort(cfg.Email.SMTP.Port),
			mail.WithUsername(cfg.Email.SMTP.Username),
			mail.WithPassword(cfg.Email.SMTP.Password),
			mail.WithTimeout(time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second),
		)
		if err != nil {
			logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
			return
		}
		defer client.Close()

		tmpl, err := template.ParseFiles(cfg.Email.TemplatePath)
		if err != nil {
			logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
			return
		}

		mailer = client
		digest.Template = tmpl
	} else {
		logger.Info("未配置 SMTP，不发送摘要邮件")
	}

	worker := publish.NewWorker(
		publish.NewWebhookSender(time.Duration(cfg.Publish.WebhookTimeout)*time.Second),
		mailer,
		digest,
		logger,
	)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue, // 队列名称
		true,               // 是否持久化
		false,              // 是否自动删除
		false,              // 是否独占
		false,              // 是否不等待
		nil,                // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，由 RabbitMQ 自动分配
		false,  // 手动确认
		false,  // 是否独占队列
		false,  // RabbitMQ 不支持 no-local
		false,  // 是否不等待
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}

				handleCtx, handleCancel := context.WithTimeout(ctx, time.Duration(cfg.Publish.WebhookTimeout)*time.Second*2)
				err := worker.Handle(handleCtx, msg.Body)
				handleCancel()

				if err != nil {
					// 不自动重试，失败的消息直接丢弃
					logger.Error("发布任务处理失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待发布任务...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 publisher...")
	cancel()
	wg.Wait()
	slog.Info("publisher 已成功关闭")
}
