package notify

import (
	"context"

	"github.com/redis/rueidis"
)

// RedisNotifier broadcasts change events over a redis pub/sub channel
// so that every running instance sees writes made by any of them.
type RedisNotifier struct {
	client  rueidis.Client
	channel string
}

func NewRedisNotifier(client rueidis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, ownerID string) error {
	cmd := n.client.B().Publish().Channel(n.channel).Message(ownerID).Build()
	return n.client.Do(ctx, cmd).Error()
}

func (n *RedisNotifier) Listen(ctx context.Context, handler func(ownerID string)) error {
	return n.client.Receive(
		ctx,
		n.client.B().Subscribe().Channel(n.channel).Build(),
		func(msg rueidis.PubSubMessage) {
			handler(msg.Message)
		},
	)
}
