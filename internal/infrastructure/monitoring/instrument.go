package monitoring

import (
	"context"
	"image"
	"time"

	"framecast/internal/core/domain"
	"framecast/internal/core/ports"
)

// InstrumentedEncoder records encode latency around an encoder.
type InstrumentedEncoder struct {
	encoder   ports.FrameEncoder
	collector *PrometheusCollector
}

func NewInstrumentedEncoder(encoder ports.FrameEncoder, collector *PrometheusCollector) *InstrumentedEncoder {
	return &InstrumentedEncoder{encoder: encoder, collector: collector}
}

func (e *InstrumentedEncoder) Encode(img image.Image) (*domain.Frame, error) {
	started := time.Now()
	frame, err := e.encoder.Encode(img)
	if err == nil {
		e.collector.ObserveEncodeDuration(time.Since(started).Seconds())
	}
	return frame, err
}

// InstrumentedWriter counts frames and bytes delivered through a writer.
type InstrumentedWriter struct {
	writer    ports.FrameWriter
	collector *PrometheusCollector
	sessionID domain.SessionID
}

func NewInstrumentedWriter(writer ports.FrameWriter, collector *PrometheusCollector, sessionID domain.SessionID) *InstrumentedWriter {
	return &InstrumentedWriter{writer: writer, collector: collector, sessionID: sessionID}
}

func (w *InstrumentedWriter) WriteFrame(ctx context.Context, frame *domain.Frame) error {
	if err := w.writer.WriteFrame(ctx, frame); err != nil {
		return err
	}
	w.collector.RecordFrameSent(w.sessionID, frame.Size())
	return nil
}

func (w *InstrumentedWriter) Close() error {
	return w.writer.Close()
}
