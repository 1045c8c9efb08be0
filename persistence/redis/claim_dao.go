package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/util"
	"go.uber.org/zap"
)

const CLAIM_KEY string = "CLAIM"

var _ persistence.ClaimDao = new(redisClaimDao)

type redisClaimDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Claim]
}

func NewRedisClaimDao(baseDao *baseDao) *redisClaimDao {
	return &redisClaimDao{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.Claim](),
	}
}

func (rc *redisClaimDao) Get(ctx context.Context, id string) (*model.Claim, error) {
	key := rc.getNamespaceKey(CLAIM_KEY, id)
	data, err := rc.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "claim", Id: id}
		}
		logger.Error("error in getting claim", zap.String("id", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rc.encoderDecoder.Decode([]byte(data))
}

// Update applies a partial field merge; absent keys are left untouched.
func (rc *redisClaimDao) Update(ctx context.Context, id string, fields map[string]any) error {
	claim, err := rc.Get(ctx, id)
	if err != nil {
		return err
	}
	if claim.Fields == nil {
		claim.Fields = make(map[string]any)
	}
	for k, v := range fields {
		claim.Fields[k] = v
	}
	claim.UpdatedAt = time.Now()
	return rc.save(ctx, *claim)
}

func (rc *redisClaimDao) save(ctx context.Context, claim model.Claim) error {
	key := rc.getNamespaceKey(CLAIM_KEY, claim.Id)
	data, err := rc.encoderDecoder.Encode(claim)
	if err != nil {
		return err
	}
	if err := rc.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Error("error in saving claim", zap.String("id", claim.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

// Save seeds a claim record; used by the authoring surface and tests.
func (rc *redisClaimDao) Save(ctx context.Context, claim model.Claim) error {
	return rc.save(ctx, claim)
}
