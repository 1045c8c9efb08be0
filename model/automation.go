package model

type TriggerType string

const TRIGGER_TYPE_WEBHOOK TriggerType = "webhook"
const TRIGGER_TYPE_CLAIM_EVENT TriggerType = "claim_event"
const TRIGGER_TYPE_MANUAL TriggerType = "manual"

type ActionType string

const ACTION_TYPE_CREATE_TASK ActionType = "create_task"
const ACTION_TYPE_SEND_NOTIFICATION ActionType = "send_notification"
const ACTION_TYPE_UPDATE_CLAIM ActionType = "update_claim"
const ACTION_TYPE_UPDATE_CLAIM_STATUS ActionType = "update_claim_status"
const ACTION_TYPE_SEND_EMAIL ActionType = "send_email"
const ACTION_TYPE_SEND_SMS ActionType = "send_sms"
const ACTION_TYPE_WEBHOOK ActionType = "webhook"

// Automation is a named rule owned by the authoring surface. The engine
// treats it as read only; Actions order is execution order.
type Automation struct {
	Id          string      `json:"id"`
	Name        string      `json:"name"`
	TriggerType TriggerType `json:"trigger_type"`
	IsActive    bool        `json:"is_active"`
	Actions     []ActionDef `json:"actions"`
}

type ActionDef struct {
	Type   ActionType     `json:"type"`
	Config map[string]any `json:"config"`
}

// TriggerRequest is the body of an inbound trigger call.
type TriggerRequest struct {
	AutomationId string         `json:"automation_id"`
	ClaimId      string         `json:"claim_id"`
	TriggerData  map[string]any `json:"trigger_data"`
}
