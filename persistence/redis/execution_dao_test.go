package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rd "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
)

func setupStorage(t *testing.T) *redisStorage {
	mr := miniredis.RunT(t)
	client := rd.NewUniversalClient(&rd.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { client.Close() })
	return NewRedisStorageFromClient(client, "test")
}

func pendingExecution(id string) model.Execution {
	return model.Execution{
		Id:           id,
		AutomationId: "auto-1",
		ClaimId:      "claim-1",
		TriggerData:  map[string]any{"inspection": map[string]any{"date": "5/1"}},
		Status:       model.EXECUTION_PENDING,
		CreatedAt:    time.Now(),
	}
}

func TestExecutionCreateAndGet(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Executions().Create(ctx, pendingExecution("exec-1")))

	execution, err := storage.Executions().Get(ctx, "exec-1")
	require.NoError(t, err)
	require.Equal(t, "exec-1", execution.Id)
	require.Equal(t, "auto-1", execution.AutomationId)
	require.Equal(t, "claim-1", execution.ClaimId)
	require.Equal(t, model.EXECUTION_PENDING, execution.Status)
	require.Equal(t, map[string]any{"inspection": map[string]any{"date": "5/1"}}, execution.TriggerData)
	require.Nil(t, execution.Result)
	require.Nil(t, execution.CompletedAt)
}

func TestExecutionGetNotFound(t *testing.T) {
	storage := setupStorage(t)

	_, err := storage.Executions().Get(context.Background(), "nope")
	var notFoundErr persistence.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestPollPendingOrder(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	for _, id := range []string{"exec-1", "exec-2", "exec-3"} {
		require.NoError(t, storage.Executions().Create(ctx, pendingExecution(id)))
	}

	ids, err := storage.Executions().PollPending(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"exec-1", "exec-2"}, ids)

	ids, err = storage.Executions().PollPending(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"exec-3"}, ids)

	ids, err = storage.Executions().PollPending(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestRequeueAfterPoll(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Executions().Create(ctx, pendingExecution("exec-1")))

	ids, err := storage.Executions().PollPending(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"exec-1"}, ids)

	// A requeued id is visible to the very next poll.
	require.NoError(t, storage.Executions().Requeue(ctx, "exec-1"))
	ids, err = storage.Executions().PollPending(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"exec-1"}, ids)
}

func TestRecoverPending(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	for _, id := range []string{"exec-1", "exec-2", "exec-3"} {
		require.NoError(t, storage.Executions().Create(ctx, pendingExecution(id)))
	}

	// Pop the whole batch, then abandon it as a crashed worker would.
	ids, err := storage.Executions().PollPending(ctx, 3)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	ids, err = storage.Executions().PollPending(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, ids)

	moved, err := storage.Executions().RecoverPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, moved)

	ids, err = storage.Executions().PollPending(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"exec-1", "exec-2", "exec-3"}, ids)
}

func TestFinalizeClearsInFlight(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Executions().Create(ctx, pendingExecution("exec-1")))
	_, err := storage.Executions().PollPending(ctx, 1)
	require.NoError(t, err)

	claimed, err := storage.Executions().Claim(ctx, "exec-1")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, storage.Executions().MarkSucceeded(ctx, "exec-1", model.ExecutionResult{}, time.Now()))

	moved, err := storage.Executions().RecoverPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, moved)
}

func TestAckClearsInFlight(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Executions().Create(ctx, pendingExecution("exec-1")))
	_, err := storage.Executions().PollPending(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, storage.Executions().Ack(ctx, "exec-1"))
	moved, err := storage.Executions().RecoverPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, moved)
}

func TestClaimWinsOnce(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Executions().Create(ctx, pendingExecution("exec-1")))

	claimed, err := storage.Executions().Claim(ctx, "exec-1")
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = storage.Executions().Claim(ctx, "exec-1")
	require.NoError(t, err)
	require.False(t, claimed)

	execution, err := storage.Executions().Get(ctx, "exec-1")
	require.NoError(t, err)
	require.Equal(t, model.EXECUTION_RUNNING, execution.Status)
}

func TestMarkSucceeded(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Executions().Create(ctx, pendingExecution("exec-1")))
	claimed, err := storage.Executions().Claim(ctx, "exec-1")
	require.NoError(t, err)
	require.True(t, claimed)

	result := model.ExecutionResult{
		Actions: []model.ActionResult{
			{ActionType: model.ACTION_TYPE_CREATE_TASK, Success: true, Result: map[string]any{"task_id": "t1"}},
			{ActionType: model.ACTION_TYPE_SEND_EMAIL, Success: false, Error: "no recipient"},
		},
	}
	require.NoError(t, storage.Executions().MarkSucceeded(ctx, "exec-1", result, time.Now()))

	execution, err := storage.Executions().Get(ctx, "exec-1")
	require.NoError(t, err)
	require.Equal(t, model.EXECUTION_SUCCESS, execution.Status)
	require.NotNil(t, execution.CompletedAt)
	require.NotNil(t, execution.Result)
	require.Len(t, execution.Result.Actions, 2)
	require.True(t, execution.Result.Actions[0].Success)
	require.Equal(t, "no recipient", execution.Result.Actions[1].Error)
}

func TestTerminalStateIsFinal(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Executions().Create(ctx, pendingExecution("exec-1")))

	// Finalizing an unclaimed execution is refused.
	err := storage.Executions().MarkFailed(ctx, "exec-1", "boom", time.Now())
	var storageErr persistence.StorageLayerError
	require.ErrorAs(t, err, &storageErr)

	claimed, err := storage.Executions().Claim(ctx, "exec-1")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, storage.Executions().MarkSucceeded(ctx, "exec-1", model.ExecutionResult{}, time.Now()))

	err = storage.Executions().MarkFailed(ctx, "exec-1", "boom", time.Now())
	require.ErrorAs(t, err, &storageErr)

	execution, err := storage.Executions().Get(ctx, "exec-1")
	require.NoError(t, err)
	require.Equal(t, model.EXECUTION_SUCCESS, execution.Status)
	require.Empty(t, execution.ErrorMessage)
}

func TestAutomationDaoRoundTrip(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	automation := model.Automation{
		Id:          "auto-1",
		Name:        "follow up",
		TriggerType: model.TRIGGER_TYPE_WEBHOOK,
		IsActive:    true,
		Actions: []model.ActionDef{
			{Type: model.ACTION_TYPE_CREATE_TASK, Config: map[string]any{"title": "call {claim.name}"}},
		},
	}
	require.NoError(t, storage.Automations().Save(ctx, automation))

	got, err := storage.Automations().Get(ctx, "auto-1")
	require.NoError(t, err)
	require.Equal(t, automation.Name, got.Name)
	require.Len(t, got.Actions, 1)
	require.Equal(t, model.ACTION_TYPE_CREATE_TASK, got.Actions[0].Type)

	require.NoError(t, storage.Automations().Delete(ctx, "auto-1"))
	_, err = storage.Automations().Get(ctx, "auto-1")
	var notFoundErr persistence.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestClaimDaoPartialUpdate(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.claims.Save(ctx, model.Claim{
		Id:     "claim-1",
		Fields: map[string]any{"status": "open", "name": "Acme"},
	}))

	require.NoError(t, storage.Claims().Update(ctx, "claim-1", map[string]any{"status": "closed"}))

	got, err := storage.Claims().Get(ctx, "claim-1")
	require.NoError(t, err)
	require.Equal(t, "closed", got.Fields["status"])
	require.Equal(t, "Acme", got.Fields["name"])
	require.False(t, got.UpdatedAt.IsZero())
}
