// db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/mehmetNetAx/papirai-sub001/logging"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

var (
	RedisClient   *redis.Client
	encryptionKey []byte
)

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptionKey = []byte(viper.GetString("redis.encryptionKey"))
	if len(encryptionKey) != 32 {
		return fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// CacheIntegration stores an integration in Redis. Connection credentials
// live inside the config, so the payload is encrypted at rest.
func CacheIntegration(ctx context.Context, integration *model.Integration) error {
	integrationJSON, err := json.Marshal(integration)
	if err != nil {
		return fmt.Errorf("failed to marshal integration: %w", err)
	}

	encryptedIntegration, err := encrypt(integrationJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt integration: %w", err)
	}

	key := fmt.Sprintf("integration:%s", integration.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedIntegration), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache integration: %w", err)
	}

	logger.Debug("Integration cached successfully", zap.String("integrationID", integration.ID))
	return nil
}

func GetCachedIntegration(ctx context.Context, integrationID string) (*model.Integration, error) {
	key := fmt.Sprintf("integration:%s", integrationID)
	encryptedIntegrationStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Integration not found in cache", zap.String("integrationID", integrationID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get integration from cache: %w", err)
	}

	encryptedIntegration, err := base64.StdEncoding.DecodeString(encryptedIntegrationStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode integration: %w", err)
	}

	integrationJSON, err := decrypt(encryptedIntegration)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt integration: %w", err)
	}

	var integration model.Integration
	err = json.Unmarshal(integrationJSON, &integration)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal integration: %w", err)
	}

	logger.Debug("Integration retrieved from cache", zap.String("integrationID", integrationID))
	return &integration, nil
}

func DeleteCachedIntegration(ctx context.Context, integrationID string) error {
	key := fmt.Sprintf("integration:%s", integrationID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete integration from cache: %w", err)
	}
	logger.Debug("Integration deleted from cache", zap.String("integrationID", integrationID))
	return nil
}

// CacheContractDateStatus stores a computed date-status rollup so dashboards
// do not reclassify on every request. Results are transient; a short TTL is
// enough.
func CacheContractDateStatus(ctx context.Context, status *model.ContractDateStatus, ttl time.Duration) error {
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal date status: %w", err)
	}

	key := fmt.Sprintf("datestatus:%s", status.ContractID)
	err = RedisClient.Set(ctx, key, statusJSON, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache date status: %w", err)
	}

	logger.Debug("Date status cached successfully", zap.String("contractID", status.ContractID))
	return nil
}

func GetCachedContractDateStatus(ctx context.Context, contractID string) (*model.ContractDateStatus, error) {
	key := fmt.Sprintf("datestatus:%s", contractID)
	statusJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Date status not found in cache", zap.String("contractID", contractID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get date status from cache: %w", err)
	}

	var status model.ContractDateStatus
	err = json.Unmarshal([]byte(statusJSON), &status)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal date status: %w", err)
	}

	logger.Debug("Date status retrieved from cache", zap.String("contractID", contractID))
	return &status, nil
}

func DeleteCachedContractDateStatus(ctx context.Context, contractID string) error {
	key := fmt.Sprintf("datestatus:%s", contractID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete date status from cache: %w", err)
	}
	logger.Debug("Date status deleted from cache", zap.String("contractID", contractID))
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

// LockResource takes a best-effort distributed lock. The sync runner uses it
// to keep at most one run per integration in flight across instances.
func LockResource(ctx context.Context, resourceName string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:%s", resourceName)
	locked, err := RedisClient.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	logger.Debug("Lock acquisition attempt",
		zap.String("resource", resourceName),
		zap.Bool("locked", locked))
	return locked, nil
}

func UnlockResource(ctx context.Context, resourceName string) error {
	key := fmt.Sprintf("lock:%s", resourceName)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	logger.Debug("Lock released", zap.String("resource", resourceName))
	return nil
}
