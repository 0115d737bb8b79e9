package audit

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/model"

	"go.uber.org/zap"
)

const defaultWriteTimeout = 5 * time.Second

// 監査ログを非同期で全sinkに書く。
// 失敗はログに出すだけで呼び出し元には返さない。
type Dispatcher struct {
	sinks   []Sink
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Dispatcher)

func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(disp *Dispatcher) { disp.now = now }
}

func NewDispatcher(log *zap.Logger, sinks []Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		log:     log,
		timeout: defaultWriteTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// 呼び出し元のctxがキャンセルされても書き込みは続ける（値だけ引き継ぐ）
func (d *Dispatcher) Record(ctx context.Context, entries ...model.AuditLog) {
	if len(entries) == 0 || len(d.sinks) == 0 {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("audit dispatcher closed, dropping entries", zap.Int("count", len(entries)))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	now := d.now()
	batch := make([]model.AuditLog, len(entries))
	for i, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		batch[i] = e
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()
		wctx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()
		d.write(wctx, batch)
	}()
}

func (d *Dispatcher) write(ctx context.Context, batch []model.AuditLog) {
	for _, e := range batch {
		for _, s := range d.sinks {
			if err := s.Write(ctx, e); err != nil {
				d.log.Warn("audit write failed",
					zap.String("sink", s.Name()),
					zap.String("action", string(e.Action)),
					zap.String("resource_type", string(e.ResourceType)),
					zap.String("resource_id", e.ResourceID),
					zap.Error(err),
				)
			}
		}
	}
}

// 書き込み中のものを待つ。ctxが先に切れたらその時点で諦める。
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
