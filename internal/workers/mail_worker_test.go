package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/email"
)

type fakeProvider struct {
	mu      sync.Mutex
	sent    []email.Message
	fail    bool
	release chan struct{}
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Send(ctx context.Context, msg email.Message) error {
	if p.release != nil {
		<-p.release
	}
	if p.fail {
		return errors.New("smtp down")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func TestMailWorker_DeliversAndDrainsOnStop(t *testing.T) {
	provider := &fakeProvider{}
	w := NewMailWorker(provider, 10, 2, false)
	w.Start()

	for i := 0; i < 5; i++ {
		assert.True(t, w.Enqueue(context.Background(), email.Message{To: "a@example.com"}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))

	assert.EqualValues(t, 5, w.Sent())
	assert.Len(t, provider.sent, 5)

	// после остановки письма не принимаются, паники нет
	assert.False(t, w.Enqueue(context.Background(), email.Message{To: "late@example.com"}))
	assert.EqualValues(t, 1, w.Dropped())
}

func TestMailWorker_FailuresAreCounted(t *testing.T) {
	w := NewMailWorker(&fakeProvider{fail: true}, 10, 1, true)
	w.Start()

	assert.True(t, w.Enqueue(context.Background(), email.Message{To: "a@example.com", TextBody: "code 123456"}))
	require.NoError(t, w.Stop(context.Background()))

	assert.EqualValues(t, 1, w.Failures())
	assert.EqualValues(t, 0, w.Sent())
}

func TestMailWorker_FullQueueDoesNotBlock(t *testing.T) {
	provider := &fakeProvider{release: make(chan struct{})}
	w := NewMailWorker(provider, 1, 1, false)
	w.Start()

	// первое письмо забирает обработчик, второе ложится в очередь
	require.True(t, w.Enqueue(context.Background(), email.Message{To: "1@example.com"}))
	require.Eventually(t, func() bool { return len(w.queue) == 0 }, time.Second, 5*time.Millisecond)
	require.True(t, w.Enqueue(context.Background(), email.Message{To: "2@example.com"}))

	done := make(chan bool)
	go func() { done <- w.Enqueue(context.Background(), email.Message{To: "3@example.com"}) }()

	select {
	case accepted := <-done:
		assert.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	assert.EqualValues(t, 1, w.Dropped())

	close(provider.release)
	require.NoError(t, w.Stop(context.Background()))
	assert.EqualValues(t, 2, w.Sent())
}
