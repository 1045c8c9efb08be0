package model

import "time"

type ExecutionStatus string

const EXECUTION_PENDING ExecutionStatus = "pending"
const EXECUTION_RUNNING ExecutionStatus = "running"
const EXECUTION_SUCCESS ExecutionStatus = "success"
const EXECUTION_FAILED ExecutionStatus = "failed"

// Execution is one queued run of an Automation. Valid transitions are
// pending -> running -> {success, failed}; terminal rows are immutable.
type Execution struct {
	Id           string           `json:"id"`
	AutomationId string           `json:"automation_id"`
	ClaimId      string           `json:"claim_id"`
	TriggerData  map[string]any   `json:"trigger_data"`
	Status       ExecutionStatus  `json:"status"`
	Result       *ExecutionResult `json:"result,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

// ExecutionResult aggregates per action outcomes; set only when the
// dispatch loop ran to completion.
type ExecutionResult struct {
	Actions []ActionResult `json:"actions"`
}

type ActionResult struct {
	ActionType ActionType     `json:"action_type"`
	Success    bool           `json:"success"`
	Result     map[string]any `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
}
