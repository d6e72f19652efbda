package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"receipt-analyzer/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisExpenseRepository stores each record as a JSON document under
// {namespace}:{collection}:{id} and keeps a sorted set of ids scored by
// creation time for newest-first listing.
type RedisExpenseRepository struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// createExpenseScript writes the index entry before the document so a failed
// ZADD leaves nothing behind. Returns 0 when the document already exists.
var createExpenseScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("ZADD", KEYS[2], ARGV[2], ARGV[3])
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

func NewRedisExpenseRepository(client *redis.Client, namespace, collection string, logger *zap.Logger) *RedisExpenseRepository {
	return &RedisExpenseRepository{
		client:    client,
		keyPrefix: namespace + ":" + collection,
		logger:    logger,
	}
}

func (r *RedisExpenseRepository) docKey(id string) string {
	return r.keyPrefix + ":" + id
}

func (r *RedisExpenseRepository) indexKey() string {
	return r.keyPrefix + ":index"
}

func (r *RedisExpenseRepository) Create(ctx context.Context, rec *models.ExpenseRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode expense record: %w", err)
	}

	id := rec.ID.String()
	created, err := createExpenseScript.Run(ctx, r.client,
		[]string{r.docKey(id), r.indexKey()},
		payload, float64(rec.CreatedAt.UnixNano()), id,
	).Int()
	if err != nil {
		r.logger.Error("Failed to store expense document", zap.String("id", id), zap.Error(err))
		return err
	}
	if created == 0 {
		return fmt.Errorf("document %s already exists", id)
	}

	return nil
}

func (r *RedisExpenseRepository) List(ctx context.Context, limit, offset int) ([]*models.ExpenseRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := r.client.ZRevRange(ctx, r.indexKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*models.ExpenseRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			r.logger.Warn("Indexed expense document is missing", zap.String("id", ids[i]))
			continue
		}
		var rec models.ExpenseRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode expense record %s: %w", ids[i], err)
		}
		records = append(records, &rec)
	}

	return records, nil
}
