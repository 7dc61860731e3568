package workers

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"storefront_backend/internal/email"
	"storefront_backend/internal/logger"
)

const sendTimeout = 30 * time.Second

// MailWorker - фоновая отправка писем из ограниченной очереди.
// Enqueue никогда не блокирует запрос: при переполнении письмо отбрасывается.
type MailWorker struct {
	provider     email.Provider
	queue        chan email.Message
	workers      int
	revealBodies bool

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	sent     atomic.Int64
	failures atomic.Int64
	dropped  atomic.Int64
}

// NewMailWorker: revealBodies - писать текст неотправленного письма в лог (только не в production)
func NewMailWorker(provider email.Provider, queueSize, workers int, revealBodies bool) *MailWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if workers <= 0 {
		workers = 2
	}
	return &MailWorker{
		provider:     provider,
		queue:        make(chan email.Message, queueSize),
		workers:      workers,
		revealBodies: revealBodies,
	}
}

// Start запускает обработчиков очереди
func (w *MailWorker) Start() {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
	logger.Info("Mail worker started", "workers", w.workers, "provider", w.provider.Name())
}

// Enqueue ставит письмо в очередь; false - письмо не принято
func (w *MailWorker) Enqueue(ctx context.Context, msg email.Message) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.dropped.Add(1)
		logger.CtxWarn(ctx, "Mail worker stopped, email dropped", "to", msg.To, "subject", msg.Subject)
		return false
	}

	select {
	case w.queue <- msg:
		return true
	default:
		w.dropped.Add(1)
		logger.CtxWarn(ctx, "Mail queue is full, email dropped", "to", msg.To, "subject", msg.Subject)
		return false
	}
}

func (w *MailWorker) run() {
	defer w.wg.Done()
	for msg := range w.queue {
		w.send(msg)
	}
}

func (w *MailWorker) send(msg email.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := w.provider.Send(ctx, msg); err != nil {
		w.failures.Add(1)
		attrs := []any{
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
			slog.String("error", err.Error()),
		}
		if w.revealBodies {
			attrs = append(attrs, slog.String("body", strings.TrimSpace(msg.TextBody)))
		}
		logger.Error("Failed to send email", attrs...)
		return
	}
	w.sent.Add(1)
}

// Stop закрывает очередь и ждет отправки оставшихся писем (или отмены ctx)
func (w *MailWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Mail worker stopped", "sent", w.sent.Load(), "failures", w.failures.Load(), "dropped", w.dropped.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *MailWorker) Sent() int64     { return w.sent.Load() }
func (w *MailWorker) Failures() int64 { return w.failures.Load() }
func (w *MailWorker) Dropped() int64  { return w.dropped.Load() }
