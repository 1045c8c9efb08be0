package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"go.uber.org/zap"
)

const EXECUTION_KEY string = "EXECUTION"
const PENDING_QUEUE string = "pending"
const PROCESSING_QUEUE string = "processing"

var _ persistence.ExecutionDao = new(redisExecutionDao)

// claimScript flips status from pending to running only if no other worker
// got there first; the return value is the affected count.
var claimScript = rd.NewScript(`
if redis.call('HGET', KEYS[1], 'status') == 'pending' then
  redis.call('HSET', KEYS[1], 'status', 'running')
  return 1
end
return 0
`)

// finalizeScript writes a terminal state only from running, so terminal
// rows are never re-transitioned.
var finalizeScript = rd.NewScript(`
if redis.call('HGET', KEYS[1], 'status') == 'running' then
  redis.call('HSET', KEYS[1], 'status', ARGV[1], ARGV[2], ARGV[3], 'completed_at', ARGV[4])
  return 1
end
return 0
`)

type redisExecutionDao struct {
	*baseDao
}

func NewRedisExecutionDao(baseDao *baseDao) *redisExecutionDao {
	return &redisExecutionDao{baseDao: baseDao}
}

func (re *redisExecutionDao) Create(ctx context.Context, execution model.Execution) error {
	key := re.getNamespaceKey(EXECUTION_KEY, execution.Id)
	triggerData, err := json.Marshal(execution.TriggerData)
	if err != nil {
		return err
	}
	fields := map[string]any{
		"id":            execution.Id,
		"automation_id": execution.AutomationId,
		"claim_id":      execution.ClaimId,
		"trigger_data":  string(triggerData),
		"status":        string(execution.Status),
		"created_at":    execution.CreatedAt.Format(time.RFC3339Nano),
	}
	pipe := re.redisClient.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.RPush(ctx, re.getNamespaceKey(EXECUTION_KEY, PENDING_QUEUE), execution.Id)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("error in saving execution", zap.String("id", execution.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (re *redisExecutionDao) Get(ctx context.Context, id string) (*model.Execution, error) {
	key := re.getNamespaceKey(EXECUTION_KEY, id)
	fields, err := re.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Error("error in getting execution", zap.String("id", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	if len(fields) == 0 {
		return nil, persistence.NotFoundError{Kind: "execution", Id: id}
	}
	return executionFromFields(fields)
}

// PollPending moves up to batchSize ids from the pending queue to the
// processing list, so ids survive a crash between pop and finalize.
func (re *redisExecutionDao) PollPending(ctx context.Context, batchSize int) ([]string, error) {
	pending := re.getNamespaceKey(EXECUTION_KEY, PENDING_QUEUE)
	processing := re.getNamespaceKey(EXECUTION_KEY, PROCESSING_QUEUE)
	ids := make([]string, 0, batchSize)
	for len(ids) < batchSize {
		id, err := re.redisClient.LMove(ctx, pending, processing, "LEFT", "RIGHT").Result()
		if err != nil {
			if errors.Is(err, rd.Nil) {
				break
			}
			logger.Error("error while pop from pending queue", zap.String("queue", pending), zap.Error(err))
			return nil, persistence.StorageLayerError{Message: err.Error()}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Requeue returns an id from the processing list to the head of the pending
// queue after a transient claim failure, so it is retried next pass.
func (re *redisExecutionDao) Requeue(ctx context.Context, id string) error {
	pending := re.getNamespaceKey(EXECUTION_KEY, PENDING_QUEUE)
	processing := re.getNamespaceKey(EXECUTION_KEY, PROCESSING_QUEUE)
	pipe := re.redisClient.TxPipeline()
	pipe.LRem(ctx, processing, 1, id)
	pipe.LPush(ctx, pending, id)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("error requeueing execution", zap.String("id", id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

// Ack drops an id from the processing list when the worker will not
// finalize it, e.g. another worker already claimed it.
func (re *redisExecutionDao) Ack(ctx context.Context, id string) error {
	processing := re.getNamespaceKey(EXECUTION_KEY, PROCESSING_QUEUE)
	if err := re.redisClient.LRem(ctx, processing, 1, id).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

// RecoverPending moves every id left on the processing list back to the head
// of the pending queue, preserving order. The worker calls it on startup so
// a batch stranded by a crash is picked up again.
func (re *redisExecutionDao) RecoverPending(ctx context.Context) (int, error) {
	pending := re.getNamespaceKey(EXECUTION_KEY, PENDING_QUEUE)
	processing := re.getNamespaceKey(EXECUTION_KEY, PROCESSING_QUEUE)
	moved := 0
	for {
		_, err := re.redisClient.LMove(ctx, processing, pending, "RIGHT", "LEFT").Result()
		if err != nil {
			if errors.Is(err, rd.Nil) {
				return moved, nil
			}
			return moved, persistence.StorageLayerError{Message: err.Error()}
		}
		moved++
	}
}

func (re *redisExecutionDao) Claim(ctx context.Context, id string) (bool, error) {
	key := re.getNamespaceKey(EXECUTION_KEY, id)
	res, err := claimScript.Run(ctx, re.redisClient, []string{key}).Int()
	if err != nil {
		return false, persistence.StorageLayerError{Message: err.Error()}
	}
	return res == 1, nil
}

func (re *redisExecutionDao) MarkSucceeded(ctx context.Context, id string, result model.ExecutionResult, completedAt time.Time) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return re.finalize(ctx, id, model.EXECUTION_SUCCESS, "result", string(data), completedAt)
}

func (re *redisExecutionDao) MarkFailed(ctx context.Context, id string, errorMessage string, completedAt time.Time) error {
	return re.finalize(ctx, id, model.EXECUTION_FAILED, "error_message", errorMessage, completedAt)
}

func (re *redisExecutionDao) finalize(ctx context.Context, id string, status model.ExecutionStatus, field string, value string, completedAt time.Time) error {
	key := re.getNamespaceKey(EXECUTION_KEY, id)
	res, err := finalizeScript.Run(ctx, re.redisClient, []string{key},
		string(status), field, value, completedAt.Format(time.RFC3339Nano)).Int()
	if err != nil {
		logger.Error("error in finalizing execution", zap.String("id", id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if res != 1 {
		return persistence.StorageLayerError{Message: "execution " + id + " is not running"}
	}
	processing := re.getNamespaceKey(EXECUTION_KEY, PROCESSING_QUEUE)
	if err := re.redisClient.LRem(ctx, processing, 1, id).Err(); err != nil {
		logger.Error("error removing execution from processing list", zap.String("id", id), zap.Error(err))
	}
	return nil
}

func executionFromFields(fields map[string]string) (*model.Execution, error) {
	execution := &model.Execution{
		Id:           fields["id"],
		AutomationId: fields["automation_id"],
		ClaimId:      fields["claim_id"],
		Status:       model.ExecutionStatus(fields["status"]),
		ErrorMessage: fields["error_message"],
	}
	if raw := fields["trigger_data"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &execution.TriggerData); err != nil {
			return nil, err
		}
	}
	if raw := fields["result"]; raw != "" {
		var result model.ExecutionResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, err
		}
		execution.Result = &result
	}
	if raw := fields["created_at"]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		execution.CreatedAt = t
	}
	if raw := fields["completed_at"]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		execution.CompletedAt = &t
	}
	return execution, nil
}
