// Package broker relays sync frames between server instances over redis
// pub/sub, one channel per document.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/notesync/internal/transport"
	"github.com/iudanet/notesync/pkg/api"
)

// channelPrefix префикс канала redis для документа
const channelPrefix = "notesync:doc:"

// message конверт кадра в канале: экземпляр-отправитель и сам кадр
type message struct {
	Instance string          `json:"instance"`
	Frame    json.RawMessage `json:"frame"`
}

// Redis is a broker backed by redis pub/sub.
type Redis struct {
	client   *redis.Client
	logger   *slog.Logger
	instance string
}

// NewRedis connects to redis at addr. instance identifies this server so
// that its own messages are not delivered back to it.
func NewRedis(ctx context.Context, addr, instance string, logger *slog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Redis{
		client:   client,
		instance: instance,
		logger:   logger,
	}, nil
}

// Channel returns the redis channel of a document.
func Channel(docID string) string {
	return channelPrefix + docID
}

// Publish sends the frame to the other instances.
func (b *Redis) Publish(ctx context.Context, docID string, frame api.Frame) error {
	payload, err := encodeMessage(b.instance, frame)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, Channel(docID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", Channel(docID), err)
	}
	return nil
}

// Subscribe delivers frames published by other instances to fn, one at a
// time, until unsubscribe is called.
func (b *Redis) Subscribe(ctx context.Context, docID string, fn func(api.Frame)) (func(), error) {
	pubsub := b.client.Subscribe(ctx, Channel(docID))

	// Дожидаемся подтверждения подписки, иначе ранние сообщения теряются
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Channel(docID), err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			instance, frame, err := decodeMessage([]byte(msg.Payload))
			if err != nil {
				b.logger.Warn("Skipping invalid broker message", "channel", msg.Channel, "error", err)
				continue
			}
			if instance == b.instance {
				continue
			}
			fn(frame)
		}
	}()

	return func() {
		_ = pubsub.Close()
		<-done
	}, nil
}

// Close closes the redis client.
func (b *Redis) Close() error {
	return b.client.Close()
}

func encodeMessage(instance string, frame api.Frame) ([]byte, error) {
	raw, err := transport.Encode(frame)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(message{Instance: instance, Frame: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal broker message: %w", err)
	}
	return data, nil
}

func decodeMessage(data []byte) (string, api.Frame, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", api.Frame{}, fmt.Errorf("failed to unmarshal broker message: %w", err)
	}
	frame, err := transport.Decode(msg.Frame)
	if err != nil {
		return "", api.Frame{}, err
	}
	return msg.Instance, frame, nil
}
