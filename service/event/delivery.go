package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/fluxtree/service/messaging"
)

// delivery drains a queue into a handler on one goroutine, so events are seen in publish order.
// A panicking handler nacks the message and it is redelivered until the queue gives up on it.
type delivery struct {
	queue   messaging.Queue[Event[any]]
	handler func(*Event[any])
	logger  *slog.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

func startDelivery(queue messaging.Queue[Event[any]], handler func(*Event[any]), logger *slog.Logger) *delivery {
	ctx, cancel := context.WithCancel(context.Background())
	ret := &delivery{queue: queue, handler: handler, logger: logger, cancel: cancel, done: make(chan struct{})}
	go ret.loop(ctx)
	return ret
}

func (d *delivery) loop(ctx context.Context) {
	defer close(d.done)
	for {
		msg, err := d.queue.Consume(ctx)
		if ctx.Err() != nil || errors.Is(err, messaging.ErrClosed) {
			return
		}
		if err != nil {
			d.logger.Warn("failed to consume event", "error", err)
			continue
		}
		if msg == nil {
			continue
		}
		if err = d.handle(msg.T()); err != nil {
			d.logger.Warn("event handler failed", "error", err)
			if nackErr := msg.Nack(err); nackErr != nil {
				d.logger.Warn("failed to nack event", "error", nackErr)
			}
			continue
		}
		if err = msg.Ack(); err != nil {
			d.logger.Warn("failed to ack event", "error", err)
		}
	}
}

func (d *delivery) handle(e *Event[any]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	if e != nil {
		d.handler(e)
	}
	return nil
}

// stop cancels consumption and waits for the in-flight handler call
func (d *delivery) stop() {
	d.cancel()
	<-d.done
}
