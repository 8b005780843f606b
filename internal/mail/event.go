// Package mail moves reset-code emails through RabbitMQ: the HTTP side
// publishes an event per code, a background consumer drains the queue and
// talks SMTP. Keeping delivery on the broker keeps slow mail relays out of
// the request path while still surfacing publish failures to the caller.
package mail

// resetQueueName is the durable queue carrying reset-code mail events.
const resetQueueName = "mail.password_reset"

// ResetCodeEvent is the payload published for every issued reset code.
// The code travels in clear text inside the broker; the queue must not be
// exposed outside the deployment boundary.
type ResetCodeEvent struct {
	ID       string `json:"id"` // unique event id for tracing / dedup in logs
	To       string `json:"to"`
	Code     string `json:"code"`
	IssuedAt string `json:"issued_at"`
}
