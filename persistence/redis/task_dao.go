package redis

import (
	"context"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/util"
	"go.uber.org/zap"
)

const TASK_KEY string = "TASK"

var _ persistence.TaskDao = new(redisTaskDao)

type redisTaskDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Task]
}

func NewRedisTaskDao(baseDao *baseDao) *redisTaskDao {
	return &redisTaskDao{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.Task](),
	}
}

func (rt *redisTaskDao) Create(ctx context.Context, task model.Task) error {
	key := rt.getNamespaceKey(TASK_KEY, task.ClaimId)
	data, err := rt.encoderDecoder.Encode(task)
	if err != nil {
		return err
	}
	if err := rt.redisClient.HSet(ctx, key, task.Id, string(data)).Err(); err != nil {
		logger.Error("error in saving task", zap.String("id", task.Id), zap.String("claimId", task.ClaimId), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

// ListByClaim returns every task bound to a claim; used by tests and the
// status surface.
func (rt *redisTaskDao) ListByClaim(ctx context.Context, claimId string) ([]model.Task, error) {
	key := rt.getNamespaceKey(TASK_KEY, claimId)
	entries, err := rt.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	tasks := make([]model.Task, 0, len(entries))
	for _, raw := range entries {
		task, err := rt.encoderDecoder.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}
