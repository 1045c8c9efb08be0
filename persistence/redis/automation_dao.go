package redis

import (
	"context"
	"errors"

	rd "github.com/redis/go-redis/v9"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/util"
	"go.uber.org/zap"
)

const AUTOMATION_KEY string = "AUTOMATION"

var _ persistence.AutomationDao = new(redisAutomationDao)

type redisAutomationDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Automation]
}

func NewRedisAutomationDao(baseDao *baseDao) *redisAutomationDao {
	return &redisAutomationDao{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.Automation](),
	}
}

func (ra *redisAutomationDao) Save(ctx context.Context, automation model.Automation) error {
	key := ra.getNamespaceKey(AUTOMATION_KEY, automation.Id)
	data, err := ra.encoderDecoder.Encode(automation)
	if err != nil {
		return err
	}
	if err := ra.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Error("error in saving automation", zap.String("id", automation.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (ra *redisAutomationDao) Get(ctx context.Context, id string) (*model.Automation, error) {
	key := ra.getNamespaceKey(AUTOMATION_KEY, id)
	data, err := ra.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "automation", Id: id}
		}
		logger.Error("error in getting automation", zap.String("id", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return ra.encoderDecoder.Decode([]byte(data))
}

func (ra *redisAutomationDao) Delete(ctx context.Context, id string) error {
	key := ra.getNamespaceKey(AUTOMATION_KEY, id)
	if err := ra.redisClient.Del(ctx, key).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
