package publisher

import (
	"context"
	"math/rand/v2"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"lotwatch/torgiwatch/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if streamCount <= 0 {
		streamCount = 1
	}

	return &RedisPublisher{
		client:          client,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Ping checks the connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return errors.NewPublisher(p.streamPrefix, "redis ping failed", err)
	}
	return nil
}

// Stream returns the stream an event is written to.
// If streamCount is 4, stream names are prefix:0 ~ prefix:3.
func (p *RedisPublisher) Stream() string {
	return p.streamPrefix + ":" + strconv.Itoa(rand.IntN(p.streamCount))
}

// Publish adds the event to a random stream as type, lot_number and a JSON payload
func (p *RedisPublisher) Publish(ctx context.Context, event LotEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.NewPublisher(p.streamPrefix, "failed to encode event", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream(),
		Values: map[string]interface{}{
			"type":       event.Type,
			"lot_number": event.Lot.LotNumber,
			"payload":    string(payload),
		},
	}).Err()
	if err != nil {
		return errors.NewPublisher(p.streamPrefix, "failed to publish event", err)
	}
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams(ctx context.Context) error {
	streams, err := p.client.Keys(ctx, p.streamPrefix+":*").Result()
	if err != nil {
		return errors.NewPublisher(p.streamPrefix, "failed to list streams", err)
	}

	for _, stream := range streams {
		if err := p.client.XTrimMaxLen(ctx, stream, int64(p.streamMaxLength)).Err(); err != nil {
			return errors.NewPublisher(stream, "failed to trim stream", err)
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
