package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/claimwise/automation/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type NotFoundError struct {
	Kind string
	Id   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Id)
}

type AutomationDao interface {
	Save(ctx context.Context, automation model.Automation) error
	Get(ctx context.Context, id string) (*model.Automation, error)
	Delete(ctx context.Context, id string) error
}

type ExecutionDao interface {
	// Create persists the execution and enqueues it for the worker.
	Create(ctx context.Context, execution model.Execution) error
	Get(ctx context.Context, id string) (*model.Execution, error)
	// PollPending pops up to batchSize execution ids, oldest first. Popped
	// ids are held in flight until finalized, requeued or acked.
	PollPending(ctx context.Context, batchSize int) ([]string, error)
	// Requeue puts a popped id back at the head of the pending queue.
	Requeue(ctx context.Context, id string) error
	// Ack drops a popped id the caller will not finalize.
	Ack(ctx context.Context, id string) error
	// RecoverPending returns ids stranded in flight by a crash to the
	// pending queue and reports how many were moved.
	RecoverPending(ctx context.Context) (int, error)
	// Claim atomically moves id from pending to running and reports whether
	// this caller won the transition.
	Claim(ctx context.Context, id string) (bool, error)
	MarkSucceeded(ctx context.Context, id string, result model.ExecutionResult, completedAt time.Time) error
	MarkFailed(ctx context.Context, id string, errorMessage string, completedAt time.Time) error
}

type ClaimDao interface {
	Save(ctx context.Context, claim model.Claim) error
	Get(ctx context.Context, id string) (*model.Claim, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

type TaskDao interface {
	Create(ctx context.Context, task model.Task) error
}

type ActivityDao interface {
	Append(ctx context.Context, entry model.ActivityEntry) error
}

type FileDao interface {
	ListByFolderNames(ctx context.Context, claimId string, folders []string) ([]model.StoredFile, error)
	Download(ctx context.Context, path string) ([]byte, error)
}

// Storage bundles every store the engine consumes.
type Storage interface {
	Automations() AutomationDao
	Executions() ExecutionDao
	Claims() ClaimDao
	Tasks() TaskDao
	Activity() ActivityDao
	Files() FileDao
}
