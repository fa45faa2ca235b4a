package ws

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const channelPrefix = "chat:"

// Relay fronts the local registry with redis pub/sub so pushes reach users
// connected to a different instance. A push that lands locally is done; one
// that does not is published on the user's channel for whichever instance
// holds the connection. With a nil redis client it degrades to local-only
// delivery.
type Relay struct {
	registry *Registry
	rdb      *redis.Client
}

func NewRelay(registry *Registry, rdb *redis.Client) *Relay {
	return &Relay{registry: registry, rdb: rdb}
}

// Push implements domain.MessagePusher. The return value reports local
// delivery only; a published frame may still reach the user elsewhere.
func (r *Relay) Push(userID uint, payload []byte) bool {
	if r.registry.Push(userID, payload) {
		return true
	}
	if r.rdb == nil {
		return false
	}
	if err := r.rdb.Publish(context.Background(), channelPrefix+strconv.FormatUint(uint64(userID), 10), payload).Err(); err != nil {
		log.Debug().Err(err).Uint("user_id", userID).Msg("failed to publish chat frame")
	}
	return false
}

// Run subscribes to every chat channel and forwards frames to locally
// connected users. It blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	pubsub := r.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID, err := parseChannel(msg.Channel)
			if err != nil {
				log.Warn().Str("channel", msg.Channel).Msg("malformed chat channel name")
				continue
			}
			r.registry.Push(userID, []byte(msg.Payload))
		}
	}
}

func parseChannel(channel string) (uint, error) {
	raw, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return 0, fmt.Errorf("channel %q lacks prefix %q", channel, channelPrefix)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
