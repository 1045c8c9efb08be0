package redis

import (
	"context"
	"errors"

	rd "github.com/redis/go-redis/v9"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/util"
)

const FILE_KEY string = "FILE"
const FILE_DATA_KEY string = "FILEDATA"

var _ persistence.FileDao = new(redisFileDao)

type redisFileDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.StoredFile]
}

func NewRedisFileDao(baseDao *baseDao) *redisFileDao {
	return &redisFileDao{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.StoredFile](),
	}
}

func (rf *redisFileDao) ListByFolderNames(ctx context.Context, claimId string, folders []string) ([]model.StoredFile, error) {
	key := rf.getNamespaceKey(FILE_KEY, claimId)
	entries, err := rf.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	wanted := make(map[string]bool, len(folders))
	for _, f := range folders {
		wanted[f] = true
	}
	files := make([]model.StoredFile, 0)
	for _, raw := range entries {
		file, err := rf.encoderDecoder.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		if len(wanted) == 0 || wanted[file.Folder] {
			files = append(files, *file)
		}
	}
	return files, nil
}

func (rf *redisFileDao) Download(ctx context.Context, path string) ([]byte, error) {
	key := rf.getNamespaceKey(FILE_DATA_KEY, path)
	data, err := rf.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "file", Id: path}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return data, nil
}

// Put stores file metadata and content; used by the document surface and
// tests.
func (rf *redisFileDao) Put(ctx context.Context, file model.StoredFile, content []byte) error {
	data, err := rf.encoderDecoder.Encode(file)
	if err != nil {
		return err
	}
	pipe := rf.redisClient.TxPipeline()
	pipe.HSet(ctx, rf.getNamespaceKey(FILE_KEY, file.ClaimId), file.Id, string(data))
	pipe.Set(ctx, rf.getNamespaceKey(FILE_DATA_KEY, file.Path), content, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
