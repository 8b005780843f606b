package mail

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taskhub/taskhub-api/internal/config"
)

// StartConsumer connects to RabbitMQ, declares the mail.password_reset
// queue and sends one email per message via SMTP. It runs a reconnect loop
// with exponential backoff and never returns under normal operation;
// processing errors are logged and the offending message is rejected
// without requeueing so a poison message cannot wedge the queue.
func StartConsumer(cfg config.Config) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("mail-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, cfg); err != nil {
			log.Printf("mail-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, cfg config.Config) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Printf("mail-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(resetQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(resetQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, cfg); err != nil {
			log.Printf("mail-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, cfg config.Config) error {
	var ev ResetCodeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if cfg.SMTPHost == "" {
		// No relay configured (dev/test). Log instead of sending.
		log.Printf("mail-consumer: [dev] reset code for %s: %s (event %s)", ev.To, ev.Code, ev.ID)
		return nil
	}
	return send(cfg, ev)
}

// send delivers the reset-code message over SMTP with a plain-text body.
func send(cfg config.Config, ev ResetCodeEvent) error {
	msg := []byte("From: " + cfg.SMTPUser + "\r\n" +
		"To: " + ev.To + "\r\n" +
		"Subject: TaskHub - Password Reset Code\r\n" +
		"\r\n" +
		"Your password reset code is: " + ev.Code + "\r\n" +
		"\r\n" +
		"This code will expire in 5 minutes. If you did not request a password reset, please ignore this message.\r\n")

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	var auth smtp.Auth
	if cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, cfg.SMTPUser, []string{ev.To}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", ev.To, err)
	}
	return nil
}
