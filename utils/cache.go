package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"mindhaven/config"
)

var (
	// TemplateCacheClient caches the weekly availability template.
	TemplateCacheClient *redis.Client
	// DraftCacheClient holds transient booking drafts.
	DraftCacheClient *redis.Client
)

func newClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitCaches initializes the Redis clients for template caching and drafts.
func InitCaches() {
	TemplateCacheClient = newClient(config.AppConfig.RedisTemplateDB)
	DraftCacheClient = newClient(config.AppConfig.RedisDraftDB)
}

// GetTemplateCacheClient returns the template cache client.
func GetTemplateCacheClient() *redis.Client {
	if TemplateCacheClient == nil {
		TemplateCacheClient = newClient(config.AppConfig.RedisTemplateDB)
	}
	return TemplateCacheClient
}

// GetDraftCacheClient returns the booking-draft client.
func GetDraftCacheClient() *redis.Client {
	if DraftCacheClient == nil {
		DraftCacheClient = newClient(config.AppConfig.RedisDraftDB)
	}
	return DraftCacheClient
}
