package writer

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"reschool-widgets/widget"
)

// reloadAllPayload is published when every widget should refresh.
const reloadAllPayload = "*"

// Notifier tells widget hosts that stored data changed.
type Notifier interface {
	ReloadAll(ctx context.Context) error
	Reload(ctx context.Context, kind widget.Kind) error
}

// Signal is a decoded reload notification.
type Signal struct {
	All  bool
	Kind widget.Kind
}

// Matches reports whether a widget of kind k should refresh.
func (s Signal) Matches(k widget.Kind) bool {
	return s.All || s.Kind == k
}

// ParseSignal decodes a published payload.
func ParseSignal(payload string) (Signal, error) {
	if payload == reloadAllPayload {
		return Signal{All: true}, nil
	}
	k, err := widget.ParseKind(payload)
	if err != nil {
		return Signal{}, err
	}
	return Signal{Kind: k}, nil
}

// RedisNotifier publishes reload signals on a Redis channel that widget
// processes subscribe to
type RedisNotifier struct {
	Client  *redis.Client
	Channel string
}

// ReloadChannel returns the channel name for an app group.
func ReloadChannel(group string) string {
	return group + ":widgets:reload"
}

func NewRedisNotifier(client *redis.Client, group string) *RedisNotifier {
	return &RedisNotifier{Client: client, Channel: ReloadChannel(group)}
}

func (n *RedisNotifier) publish(ctx context.Context, payload string) error {
	if err := n.Client.Publish(ctx, n.Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish reload %q: %w", payload, err)
	}
	return nil
}

func (n *RedisNotifier) ReloadAll(ctx context.Context) error {
	if err := n.publish(ctx, reloadAllPayload); err != nil {
		return err
	}
	log.Printf("[Widget] Reloaded all timelines")
	return nil
}

func (n *RedisNotifier) Reload(ctx context.Context, kind widget.Kind) error {
	if err := n.publish(ctx, string(kind)); err != nil {
		return err
	}
	log.Printf("[Widget] Reloaded timeline for: %s", kind)
	return nil
}

// Listen calls fn for every signal until ctx is done. Payloads that do not
// decode are logged and dropped.
func (n *RedisNotifier) Listen(ctx context.Context, fn func(Signal)) error {
	sub := n.Client.Subscribe(ctx, n.Channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reporting readiness.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.Channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			sig, err := ParseSignal(msg.Payload)
			if err != nil {
				log.Printf("Ignoring reload signal %q: %v", msg.Payload, err)
				continue
			}
			fn(sig)
		}
	}
}

// LogNotifier only logs. It stands in when no Redis is configured.
type LogNotifier struct{}

func (LogNotifier) ReloadAll(context.Context) error {
	log.Printf("[Widget] Reload requested for all timelines (no notifier configured)")
	return nil
}

func (LogNotifier) Reload(_ context.Context, kind widget.Kind) error {
	log.Printf("[Widget] Reload requested for %s (no notifier configured)", kind)
	return nil
}
