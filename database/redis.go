package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/tjgxx/DayZPDAServerTemplate/config"
)

// RDB backs the token denylist. Nil when REDIS_URL is unset, in which case
// logout is best-effort and tokens stay valid until they expire.
var RDB *redis.Client

func ConnectRedis() error {
	if config.Cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, token denylist disabled")
		return nil
	}

	opts, err := redis.ParseURL(config.Cfg.RedisURL)
	if err != nil {
		return err
	}

	RDB = redis.NewClient(opts)
	if err := RDB.Ping(context.Background()).Err(); err != nil {
		return err
	}

	log.Println("Redis connected successfully")
	return nil
}
