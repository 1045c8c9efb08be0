package redis

import (
	"context"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/util"
	"go.uber.org/zap"
)

const ACTIVITY_KEY string = "ACTIVITY"

var _ persistence.ActivityDao = new(redisActivityDao)

type redisActivityDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.ActivityEntry]
}

func NewRedisActivityDao(baseDao *baseDao) *redisActivityDao {
	return &redisActivityDao{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.ActivityEntry](),
	}
}

func (ra *redisActivityDao) Append(ctx context.Context, entry model.ActivityEntry) error {
	key := ra.getNamespaceKey(ACTIVITY_KEY, entry.ClaimId)
	data, err := ra.encoderDecoder.Encode(entry)
	if err != nil {
		return err
	}
	if err := ra.redisClient.RPush(ctx, key, string(data)).Err(); err != nil {
		logger.Error("error in appending activity", zap.String("claimId", entry.ClaimId), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (ra *redisActivityDao) ListByClaim(ctx context.Context, claimId string) ([]model.ActivityEntry, error) {
	key := ra.getNamespaceKey(ACTIVITY_KEY, claimId)
	items, err := ra.redisClient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	entries := make([]model.ActivityEntry, 0, len(items))
	for _, raw := range items {
		entry, err := ra.encoderDecoder.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}
