package async

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

type slowProcessor struct {
	delay   time.Duration
	running atomic.Int32
	peak    atomic.Int32
}

func (p *slowProcessor) Process(ctx context.Context, doc entity.Document) (pipeline.Result, error) {
	n := p.running.Add(1)
	defer p.running.Add(-1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return pipeline.Result{}, ctx.Err()
	}
	return pipeline.Result{Record: &invoice.InvoiceRecord{Number: doc.ContentHash()[:8]}}, nil
}

func TestQueue_ReturnsResult(t *testing.T) {
	q := NewQueue(&slowProcessor{}, nil, WithWorkers(1))
	defer q.Shutdown(context.Background())

	doc := entity.NewDocument([]byte("%PDF-1.4"))
	res, err := q.Process(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, doc.ContentHash()[:8], res.Record.Number)
}

func TestQueue_BoundsConcurrency(t *testing.T) {
	proc := &slowProcessor{delay: 20 * time.Millisecond}
	q := NewQueue(proc, nil, WithWorkers(2), WithQueueSize(8))
	defer q.Shutdown(context.Background())

	errs := make(chan error, 6)
	for i := 0; i < 6; i++ {
		go func(i int) {
			_, err := q.Process(context.Background(), entity.NewDocument([]byte{byte(i)}))
			errs <- err
		}(i)
	}
	for i := 0; i < 6; i++ {
		require.NoError(t, <-errs)
	}
	assert.LessOrEqual(t, proc.peak.Load(), int32(2))
}

func TestQueue_CallerCancels(t *testing.T) {
	q := NewQueue(&slowProcessor{delay: time.Second}, nil, WithWorkers(1))
	defer q.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Process(ctx, entity.NewDocument(nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_ProcessTimeout(t *testing.T) {
	q := NewQueue(&slowProcessor{delay: time.Second}, nil, WithWorkers(1), WithProcessTimeout(10*time.Millisecond))
	defer q.Shutdown(context.Background())

	_, err := q.Process(context.Background(), entity.NewDocument(nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_ClosedRejects(t *testing.T) {
	q := NewQueue(&slowProcessor{}, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	_, err := q.Process(context.Background(), entity.NewDocument(nil))
	assert.ErrorIs(t, err, ErrQueueClosed)
}
