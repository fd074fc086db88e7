// Package redis bridges state-change notifications across server
// instances via redis pub/sub.
package redis

import (
	"context"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

// ChannelStateChanged is the pub/sub channel carrying game IDs
const ChannelStateChanged = "bingo:game_state_changed"

// PubSubNotifier implements domain.Notifier by publishing the game ID
// to redis. Delivery to local WebSocket clients happens only through
// the subscription loop, so every instance (publisher included) takes
// the same path and no dedup is needed.
type PubSubNotifier struct {
	client *goredis.Client
	local  domain.Notifier
}

func NewPubSubNotifier(client *goredis.Client, local domain.Notifier) *PubSubNotifier {
	return &PubSubNotifier{client: client, local: local}
}

// GameStateChanged publishes the game ID. Publish failures fall back to
// the local notifier so at least this instance's viewers stay current.
func (n *PubSubNotifier) GameStateChanged(ctx context.Context, gameID string) {
	if err := n.client.Publish(ctx, ChannelStateChanged, gameID).Err(); err != nil {
		logger.Warn(ctx).
			Str("game_id", gameID).
			Err(err).
			Msg("notify: redis publish failed, falling back to local")
		n.local.GameStateChanged(ctx, gameID)
	}
}

// Run subscribes to the channel and fans received game IDs into the
// local notifier. It blocks until ctx is cancelled.
func (n *PubSubNotifier) Run(ctx context.Context) {
	sub := n.client.Subscribe(ctx, ChannelStateChanged)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			n.local.GameStateChanged(ctx, msg.Payload)
		}
	}
}
