package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"randomizer/internal/core/toggler"
	"randomizer/internal/sink"
	"randomizer/internal/ui/inspector"

	"github.com/redis/rueidis"
)

const publishTimeout = 2 * time.Second

// Session owns one started toggler and the resources its actions use.
type Session struct {
	Toggler *toggler.Toggler
	client  rueidis.Client
	cancel  context.CancelFunc
}

// Start builds a toggler from settings, wires the Redis publisher when an
// address is configured, subscribes observer and starts the loop.
func Start(ctx context.Context, settings inspector.Settings, observer func(toggler.Event)) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	var client rueidis.Client
	if settings.RedisAddr != "" {
		var err error
		client, err = sink.Dial(ctx, settings.RedisAddr)
		if err != nil {
			return nil, err
		}
	}
	return StartWithClient(ctx, settings, client, observer)
}

// StartWithClient is Start with an already connected Redis client, which may
// be nil to run without publishing. The session takes ownership of client and
// closes it on Stop, or right away when the session fails to start.
func StartWithClient(ctx context.Context, settings inspector.Settings, client rueidis.Client, observer func(toggler.Event)) (*Session, error) {
	runCtx, cancel := context.WithCancel(ctx)
	keeper := toggler.New(settings.TogglerConfig(), toggler.Options{})
	session := &Session{
		Toggler: keeper,
		client:  client,
		cancel:  cancel,
	}

	if client != nil {
		publisher := &sink.RedisPublisher{
			Client:  client,
			Channel: settings.RedisChannel,
			Timeout: publishTimeout,
		}
		on, off := publisher.Actions(runCtx, keeper.Toggles)
		_ = keeper.OnStateOn(on)
		_ = keeper.OnStateOff(off)
	}

	if observer != nil {
		events := keeper.Subscribe(16)
		go func() {
			for event := range events {
				observer(event)
			}
		}()
	}

	if err := keeper.Start(runCtx); err != nil {
		session.Stop()
		return nil, fmt.Errorf("start session: %w", err)
	}
	log.Printf("[Session] started: mode=%s", settings.Mode)
	return session, nil
}

// Stop halts the toggler and releases its resources. An in-flight publish is
// cancelled rather than waited out.
func (session *Session) Stop() {
	if session == nil {
		return
	}
	session.cancel()
	session.Toggler.Stop()
	session.close()
	log.Printf("[Session] stopped after %d toggles", session.Toggler.Toggles())
}

func (session *Session) close() {
	if session.client != nil {
		session.client.Close()
		session.client = nil
	}
}
