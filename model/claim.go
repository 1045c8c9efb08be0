package model

import "time"

// Claim is the subject record an execution acts on. Fields is schemaless;
// recipient resolution and templates read conventional keys such as
// policyholder_email, adjuster_phone and status.
type Claim struct {
	Id        string         `json:"id"`
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (c *Claim) Field(name string) (any, bool) {
	if c == nil || c.Fields == nil {
		return nil, false
	}
	v, ok := c.Fields[name]
	return v, ok
}

type TaskPriority string

const TASK_PRIORITY_LOW TaskPriority = "low"
const TASK_PRIORITY_MEDIUM TaskPriority = "medium"
const TASK_PRIORITY_HIGH TaskPriority = "high"

type Task struct {
	Id          string       `json:"id"`
	ClaimId     string       `json:"claim_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	DueDate     time.Time    `json:"due_date"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

type ActivityEntry struct {
	ClaimId   string    `json:"claim_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredFile is attachment metadata kept by the file store; Path locates
// the content for download.
type StoredFile struct {
	Id      string `json:"id"`
	ClaimId string `json:"claim_id"`
	Folder  string `json:"folder"`
	Name    string `json:"name"`
	Path    string `json:"path"`
}
