package analytics

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"

// ExecutionDataCollector receives one record per action attempt and one per
// finished execution; collectors must never block the dispatch path.
type ExecutionDataCollector interface {
	RecordActionSuccess(automationId string, executionId string, actionType string, data map[string]any)
	RecordActionFailure(automationId string, executionId string, actionType string, reason string)
	RecordExecution(automationId string, executionId string, status string)
}

var executionCollector ExecutionDataCollector = noopCollector{}

func InitDataCollector(config DataCollectorConfig) error {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		c, err := NewLogFileDataCollector(config.FileName)
		if err != nil {
			return err
		}
		executionCollector = c
	}
	return nil
}

func RecordActionSuccess(automationId string, executionId string, actionType string, data map[string]any) {
	executionCollector.RecordActionSuccess(automationId, executionId, actionType, data)
}

func RecordActionFailure(automationId string, executionId string, actionType string, reason string) {
	executionCollector.RecordActionFailure(automationId, executionId, actionType, reason)
}

func RecordExecution(automationId string, executionId string, status string) {
	executionCollector.RecordExecution(automationId, executionId, status)
}

type noopCollector struct{}

func (noopCollector) RecordActionSuccess(string, string, string, map[string]any) {}
func (noopCollector) RecordActionFailure(string, string, string, string)         {}
func (noopCollector) RecordExecution(string, string, string)                     {}
