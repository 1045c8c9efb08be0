package redis

import (
	rd "github.com/redis/go-redis/v9"

	"github.com/claimwise/automation/persistence"
)

var _ persistence.Storage = new(redisStorage)

type redisStorage struct {
	automations *redisAutomationDao
	executions  *redisExecutionDao
	claims      *redisClaimDao
	tasks       *redisTaskDao
	activity    *redisActivityDao
	files       *redisFileDao
}

func NewRedisStorage(conf Config) *redisStorage {
	return newStorage(newBaseDao(conf))
}

// NewRedisStorageFromClient builds the storage over an existing client;
// tests use it with an embedded redis.
func NewRedisStorageFromClient(client rd.UniversalClient, namespace string) *redisStorage {
	return newStorage(newBaseDaoFromClient(client, namespace))
}

func newStorage(base *baseDao) *redisStorage {
	return &redisStorage{
		automations: NewRedisAutomationDao(base),
		executions:  NewRedisExecutionDao(base),
		claims:      NewRedisClaimDao(base),
		tasks:       NewRedisTaskDao(base),
		activity:    NewRedisActivityDao(base),
		files:       NewRedisFileDao(base),
	}
}

func (s *redisStorage) Automations() persistence.AutomationDao { return s.automations }
func (s *redisStorage) Executions() persistence.ExecutionDao   { return s.executions }
func (s *redisStorage) Claims() persistence.ClaimDao           { return s.claims }
func (s *redisStorage) Tasks() persistence.TaskDao             { return s.tasks }
func (s *redisStorage) Activity() persistence.ActivityDao      { return s.activity }
func (s *redisStorage) Files() persistence.FileDao             { return s.files }
