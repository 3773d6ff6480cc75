package pipeline

import (
	"context"
	"image"
	"sync"

	"framecast/internal/core/domain"
	"framecast/internal/core/ports"

	"go.uber.org/zap"
)

// Pipeline joins capture, encode and transmit stages with buffered
// channels. Each stage runs in its own goroutine; cancelling the context
// drains and stops all three. After every successful frame write the
// payload size is reported to the bandwidth estimator, which feeds the
// adaptive quality loop.
type Pipeline struct {
	capture   ports.CaptureStrategy
	encoder   ports.FrameEncoder
	writer    ports.FrameWriter
	estimator ports.BandwidthEstimator
	logger    *zap.SugaredLogger

	queueSize int
}

// New creates a pipeline. queueSize bounds each inter-stage channel so a
// slow network stalls capture instead of growing memory.
func New(
	capture ports.CaptureStrategy,
	encoder ports.FrameEncoder,
	writer ports.FrameWriter,
	estimator ports.BandwidthEstimator,
	queueSize int,
	logger *zap.SugaredLogger,
) *Pipeline {
	if queueSize <= 0 {
		queueSize = 4
	}
	return &Pipeline{
		capture:   capture,
		encoder:   encoder,
		writer:    writer,
		estimator: estimator,
		logger:    logger,
		queueSize: queueSize,
	}
}

// Run blocks until the context is cancelled, then waits for all stages to
// stop.
func (p *Pipeline) Run(ctx context.Context) error {
	raw := make(chan image.Image, p.queueSize)
	encoded := make(chan *domain.Frame, p.queueSize)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		defer close(raw)
		p.captureLoop(ctx, raw)
	}()
	go func() {
		defer wg.Done()
		defer close(encoded)
		p.encodeLoop(ctx, raw, encoded)
	}()
	go func() {
		defer wg.Done()
		p.writeLoop(ctx, encoded)
	}()

	wg.Wait()
	return ctx.Err()
}

func (p *Pipeline) captureLoop(ctx context.Context, out chan<- image.Image) {
	for {
		img, err := p.capture.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warnw("capture failed", "error", err)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case out <- img:
		}
	}
}

func (p *Pipeline) encodeLoop(ctx context.Context, in <-chan image.Image, out chan<- *domain.Frame) {
	for img := range in {
		frame, err := p.encoder.Encode(img)
		if err != nil {
			p.logger.Warnw("encode failed", "error", err)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case out <- frame:
		}
	}
}

func (p *Pipeline) writeLoop(ctx context.Context, in <-chan *domain.Frame) {
	for frame := range in {
		if err := p.writer.WriteFrame(ctx, frame); err != nil {
			// the writer redials on its own; the frame is gone
			p.logger.Debugw("frame dropped", "sequence", frame.Sequence, "error", err)
			continue
		}
		p.estimator.Record(frame.Size())
	}
}
