package common

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"

	"github.com/crmarques/weddash/telemetry"
)

const telemetryShutdownTimeout = 5 * time.Second

// Invocation carries what the root command sets up once per run.
type Invocation struct {
	Logger      logr.Logger
	Telemetry   *telemetry.Telemetry
	MetricsFile string
}

type invocationKey struct{}

func WithInvocation(ctx context.Context, invocation *Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, invocation)
}

func InvocationFrom(ctx context.Context) *Invocation {
	if ctx == nil {
		return nil
	}
	invocation, _ := ctx.Value(invocationKey{}).(*Invocation)
	return invocation
}

// Close writes the metrics file, when one was requested, and flushes the
// exporters. It runs whether or not the command succeeded.
func (i *Invocation) Close() error {
	if i == nil || i.Telemetry == nil {
		return nil
	}

	writeErr := i.Telemetry.WriteMetrics(i.MetricsFile)

	ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
	defer cancel()
	return errors.Join(writeErr, i.Telemetry.Shutdown(ctx))
}
