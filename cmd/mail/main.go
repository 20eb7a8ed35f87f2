package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/lakeside-labs/backoffice/backend/internal/config"
	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The mail worker drains email_queue, sends each message over SMTP and
// records the outcome on the sent_emails row the API created.
func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("could not load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * database
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("could not create database pool", slog.String("error", err.Error()))
		return
	}
	defer dbpool.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("could not connect to database", slog.String("error", err.Error()))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * SMTP client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("could not create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("could not connect to mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("could not connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("could not open rabbitmq channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("could not declare mail queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("could not consume mail queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				handleMessage(logger, repo, client, msg)
			}
		}
	}()

	logger.Info("waiting for messages... (press CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down mail worker...")
	cancel()
	wg.Wait()
	slog.Info("mail worker stopped")
}

func handleMessage(logger *slog.Logger, repo *repository.Repository, client *mail.Client, msg amqp.Delivery) {
	mailMessage := domain.MailMessage{}
	if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
		logger.Error("could not decode mail message", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(mailMessage.From); err != nil {
		markFailed(logger, repo, mailMessage.SentEmailID, err)
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(mailMessage.To); err != nil {
		markFailed(logger, repo, mailMessage.SentEmailID, err)
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(mailMessage.Subject)
	m.SetBodyString(mail.TypeTextPlain, mailMessage.Body)
	m.SetMessageID()

	if err := client.DialAndSend(m); err != nil {
		logger.Error("could not send email", slog.Int64("sentEmailId", mailMessage.SentEmailID), slog.String("error", err.Error()))
		markFailed(logger, repo, mailMessage.SentEmailID, err)
		// do not requeue, the failure is recorded on the row
		_ = msg.Nack(false, false)
		return
	}

	messageID := m.GetGenHeader(mail.HeaderMessageID)
	var providerID *string
	if len(messageID) > 0 && messageID[0] != "" {
		providerID = &messageID[0]
	}
	if err := repo.UpdateSentEmailStatus(mailMessage.SentEmailID, domain.SentEmailStatusSent, providerID, nil); err != nil {
		logger.Error("could not mark email sent", slog.Int64("sentEmailId", mailMessage.SentEmailID), slog.String("error", err.Error()))
	}

	_ = msg.Ack(false)
}

func markFailed(logger *slog.Logger, repo *repository.Repository, sentEmailID int64, cause error) {
	if sentEmailID == 0 {
		return
	}
	errMsg := cause.Error()
	if err := repo.UpdateSentEmailStatus(sentEmailID, domain.SentEmailStatusFailed, nil, &errMsg); err != nil {
		logger.Error("could not mark email failed", slog.Int64("sentEmailId", sentEmailID), slog.String("error", err.Error()))
	}
}
