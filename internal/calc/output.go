package calc

import (
	"encoding/json"
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/ldamasio/cline/internal/broadcast"
)

// outputJSON writes data to w as indented JSON.
func outputJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

type redisPublisher struct {
	*broadcast.Publisher
	client *redis.Client
}

func newRedisPublisher(settings Settings) ResultPublisher {
	client := redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
	return &redisPublisher{
		Publisher: broadcast.NewPublisher(client, settings.Channel),
		client:    client,
	}
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}
