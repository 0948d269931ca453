package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/pkg/clients"
)

func NewMock(t *testing.T) (*EmailNotifier, *clients.MockHTTPClientI, *MockWorkerPoolI) {
	retryInterval = time.Millisecond

	ctrl := gomock.NewController(t)
	client := clients.NewMockHTTPClientI(ctrl)
	pool := NewMockWorkerPoolI(ctrl)

	notifier := NewEmailNotifier("http://localhost:8025", client)
	notifier.workerPool = pool
	defer ctrl.Finish()
	return notifier, client, pool
}

func TestNotifyEnqueuesTask(t *testing.T) {
	notifier, client, pool := NewMock(t)
	user := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	var task Task
	pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tk Task) error {
			task = tk
			return nil
		})
	client.EXPECT().Post("http://localhost:8025/api/send", gomock.Any(), gomock.Any()).DoAndReturn(
		func(url string, headers http.Header, body []byte) (int, []byte, error) {
			var msg message
			assert.NoError(t, json.Unmarshal(body, &msg))
			assert.Equal(t, "alice@example.com", msg.Email)
			assert.Equal(t, KindWelcome, msg.Kind)
			return http.StatusOK, nil, nil
		})

	notifier.Notify(context.Background(), user, KindWelcome, nil)
	assert.NoError(t, task())
}

func TestNotifyDropOnFullQueueIsSilent(t *testing.T) {
	notifier, _, pool := NewMock(t)
	user := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

	// Must not panic or surface the error.
	notifier.Notify(context.Background(), user, KindAccountLocked, map[string]string{"until": "later"})
}

func TestSendRetriesOnError(t *testing.T) {
	notifier, client, pool := NewMock(t)
	user := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	var task Task
	pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tk Task) error {
			task = tk
			return nil
		})

	gomock.InOrder(
		client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil, errors.New("connection refused")),
		client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).Return(http.StatusOK, nil, nil),
	)

	notifier.Notify(context.Background(), user, KindPasswordReset, nil)
	assert.NoError(t, task())
}

func TestSendFailsAfterRetriesExhausted(t *testing.T) {
	notifier, client, pool := NewMock(t)
	user := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	var task Task
	pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tk Task) error {
			task = tk
			return nil
		})
	client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, nil, errors.New("connection refused")).
		Times(maxRetries)

	notifier.Notify(context.Background(), user, KindOrderConfirmed, nil)
	assert.Error(t, task())
}

func TestSendRejectedByGateway(t *testing.T) {
	notifier, client, pool := NewMock(t)
	user := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	var task Task
	pool.EXPECT().AddTask(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tk Task) error {
			task = tk
			return nil
		})
	client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).Return(http.StatusBadRequest, nil, nil)

	notifier.Notify(context.Background(), user, KindOrderShipped, nil)
	assert.Error(t, task())
}
