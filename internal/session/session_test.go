package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"randomizer/internal/core/model"
	"randomizer/internal/core/toggler"
	"randomizer/internal/ui/inspector"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
)

func TestStartAndStop(t *testing.T) {
	settings := inspector.DefaultSettings()
	settings.Interval = 0.005

	toggles := make(chan toggler.Event, 64)
	session, err := Start(context.Background(), settings, func(event toggler.Event) {
		if event.Type == toggler.EventToggle {
			select {
			case toggles <- event:
			default:
			}
		}
	})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	select {
	case event := <-toggles:
		if !event.State || event.Toggle != 1 {
			t.Errorf("first toggle = %+v, want state on, toggle 1", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no toggle observed")
	}

	session.Stop()
	if session.Toggler.Running() {
		t.Errorf("toggler still running after Stop")
	}
}

func TestStartInvalidSettings(t *testing.T) {
	settings := inspector.DefaultSettings()
	settings.Mode = model.IntervalRandom
	settings.MinInterval = 5
	settings.MaxInterval = 1

	observed := make(chan struct{})
	session, err := Start(context.Background(), settings, func(toggler.Event) {
		select {
		case <-observed:
		default:
			close(observed)
		}
	})
	if !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("Start() error = %v, want ErrInvalidConfiguration", err)
	}
	if session != nil {
		t.Errorf("Start() returned a session on error")
	}
	session.Stop()
}

func TestStartUnreachableRedis(t *testing.T) {
	settings := inspector.DefaultSettings()
	settings.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := Start(ctx, settings, nil); err == nil {
		t.Fatal("Start() with unreachable redis succeeded")
	}
}

func TestStartValidatesBeforeDialing(t *testing.T) {
	settings := inspector.DefaultSettings()
	settings.Interval = -1
	settings.RedisAddr = "127.0.0.1:1"

	session, err := Start(context.Background(), settings, nil)
	if !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("Start() error = %v, want ErrInvalidConfiguration", err)
	}
	if session != nil {
		t.Errorf("Start() returned a session on error")
	}
}

func TestStopCancelsInFlightPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	inFlight := make(chan struct{})
	client.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
			close(inFlight)
			<-ctx.Done()
			return mock.ErrorResult(ctx.Err())
		}).
		Times(1)
	client.EXPECT().Close().Times(1)

	settings := inspector.DefaultSettings()
	settings.Interval = 0.001
	session, err := StartWithClient(context.Background(), settings, client, nil)
	if err != nil {
		t.Fatalf("StartWithClient() error: %v", err)
	}

	select {
	case <-inFlight:
	case <-time.After(2 * time.Second):
		t.Fatal("publish never started")
	}

	stopped := make(chan struct{})
	go func() {
		session.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(publishTimeout / 2):
		t.Fatal("Stop() waited for the publish timeout")
	}

	if err := session.Toggler.Wait(); err != nil {
		t.Errorf("Wait() after Stop = %v, want nil", err)
	}
}

func TestStartWithClientClosesOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	client.EXPECT().Close().Times(1)

	settings := inspector.DefaultSettings()
	settings.Mode = model.IntervalRandom
	settings.MinInterval = 4
	settings.MaxInterval = 2

	if _, err := StartWithClient(context.Background(), settings, client, nil); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("StartWithClient() error = %v, want ErrInvalidConfiguration", err)
	}
}
