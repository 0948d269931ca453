package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/pkg/clients"
)

type Kind string

const (
	KindWelcome        Kind = "welcome"
	KindAccountLocked  Kind = "account_locked"
	KindPasswordReset  Kind = "password_reset"
	KindEmailVerified  Kind = "email_verified"
	KindOrderConfirmed Kind = "order_confirmed"
	KindOrderShipped   Kind = "order_shipped"
	KindOrderCancelled Kind = "order_cancelled"
	KindOrderRefunded  Kind = "order_refunded"
)

// Notifier delivers a message to a user. Delivery is best effort: failures
// are logged and never surfaced to the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, user *domain.User, kind Kind, payload map[string]string)
}

const maxRetries = 3

var retryInterval = time.Second

type message struct {
	Email    string            `json:"email"`
	Username string            `json:"username"`
	Kind     Kind              `json:"kind"`
	Payload  map[string]string `json:"payload,omitempty"`
}

// EmailNotifier hands messages to a bounded worker pool; workers POST them to
// the email gateway with retries.
type EmailNotifier struct {
	url        string
	client     clients.HTTPClientI
	workerPool WorkerPoolI
}

func NewEmailNotifier(gatewayAddress string, client clients.HTTPClientI) *EmailNotifier {
	return &EmailNotifier{
		url:        gatewayAddress + "/api/send",
		client:     client,
		workerPool: NewWorkerPool(10),
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, user *domain.User, kind Kind, payload map[string]string) {
	body, err := json.Marshal(message{
		Email:    user.Email,
		Username: user.Username,
		Kind:     kind,
		Payload:  payload,
	})
	if err != nil {
		zap.L().Error("can't marshal notification", zap.String("kind", string(kind)), zap.Error(err))
		return
	}

	if err := n.workerPool.AddTask(ctx, func() error {
		return n.send(body)
	}); err != nil {
		zap.L().Warn("notification dropped",
			zap.String("kind", string(kind)),
			zap.String("email", user.Email),
			zap.Error(err))
	}
}

func (n *EmailNotifier) send(body []byte) error {
	headers := http.Header{"Content-Type": []string{"application/json"}}

	var statusCode int
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		statusCode, _, err = n.client.Post(n.url, headers, body)
		if err == nil && statusCode < http.StatusInternalServerError {
			break
		}
		if attempt < maxRetries {
			time.Sleep(retryInterval * time.Duration(attempt))
		}
	}
	if err != nil {
		return fmt.Errorf("failed to deliver notification after %d retries: %w", maxRetries, err)
	}
	if statusCode >= http.StatusBadRequest {
		return fmt.Errorf("email gateway responded with status %d", statusCode)
	}
	return nil
}

func (n *EmailNotifier) Close() {
	n.workerPool.Close()
}
