package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	maxConsecutivePollingErrors = 5
	errorPauseDuration          = 30 * time.Second
)

// UpdateHandler processes a single incoming update.
type UpdateHandler func(ctx context.Context, update *Update)

// Poller implements long-polling for receiving Telegram updates.
type Poller struct {
	client  *Client
	handler UpdateHandler
	logger  *slog.Logger

	pollingTimeout int
	allowedUpdates []string

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a new Poller. pollingTimeout is the long-poll timeout in
// seconds passed to getUpdates.
func NewPoller(client *Client, handler UpdateHandler, logger *slog.Logger, pollingTimeout int, allowedUpdates []string) *Poller {
	return &Poller{
		client:         client,
		handler:        handler,
		logger:         logger,
		pollingTimeout: pollingTimeout,
		allowedUpdates: allowedUpdates,
		stopCh:         make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start launches the polling loop in a goroutine.
func (p *Poller) Start() {
	go p.loop()
}

// Stop signals the polling loop to stop and waits for it to finish.
// It is safe to call Stop multiple times.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	<-p.done
}

// loop runs the long-polling loop until Stop() is called.
func (p *Poller) loop() {
	defer close(p.done)

	var offset int
	var consecutiveErrors int

	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		updates, err := p.client.GetUpdates(p.ctx(), GetUpdatesRequest{
			Offset:         offset,
			Timeout:        p.pollingTimeout,
			AllowedUpdates: p.allowedUpdates,
		})
		if err != nil {
			consecutiveErrors++
			p.logger.Error("polling getUpdates failed",
				"error", err,
				"consecutive_errors", consecutiveErrors,
			)

			if consecutiveErrors >= maxConsecutivePollingErrors {
				p.logger.Warn("polling paused after consecutive errors",
					"pause", errorPauseDuration,
				)
				select {
				case <-p.stopCh:
					return
				case <-time.After(errorPauseDuration):
				}
				consecutiveErrors = 0
			}
			continue
		}

		consecutiveErrors = 0

		for _, update := range updates {
			offset = update.UpdateID + 1
			p.handler(p.ctx(), &update)
		}
	}
}

// ctx returns a context that is cancelled when the poller stops.
func (p *Poller) ctx() contextWrapper {
	return contextWrapper{stopCh: p.stopCh}
}

// contextWrapper adapts a stop channel to a context.Context for the HTTP client.
type contextWrapper struct {
	stopCh <-chan struct{}
}

func (c contextWrapper) Deadline() (time.Time, bool) { return time.Time{}, false }
func (c contextWrapper) Done() <-chan struct{}       { return c.stopCh }

func (c contextWrapper) Err() error {
	select {
	case <-c.stopCh:
		return errPollerStopped
	default:
		return nil
	}
}

func (c contextWrapper) Value(any) any { return nil }

var errPollerStopped = pollerStoppedError{}

type pollerStoppedError struct{}

func (pollerStoppedError) Error() string { return "poller stopped" }
