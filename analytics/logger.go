package analytics

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogFileDataCollector struct {
	fileName string
	logger   *zap.Logger
}

var _ ExecutionDataCollector = new(LogFileDataCollector)

func NewLogFileDataCollector(fileName string) (*LogFileDataCollector, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	core := zapcore.NewCore(fileEncoder, writer, zapcore.InfoLevel)
	return &LogFileDataCollector{
		fileName: fileName,
		logger:   zap.New(core),
	}, nil
}

func (lc *LogFileDataCollector) RecordActionSuccess(automationId string, executionId string, actionType string, data map[string]any) {
	lc.logger.Info("action_success", zap.String("automationId", automationId), zap.String("executionId", executionId), zap.String("actionType", actionType), zap.Any("data", data))
}

func (lc *LogFileDataCollector) RecordActionFailure(automationId string, executionId string, actionType string, reason string) {
	lc.logger.Info("action_failure", zap.String("automationId", automationId), zap.String("executionId", executionId), zap.String("actionType", actionType), zap.String("reason", reason))
}

func (lc *LogFileDataCollector) RecordExecution(automationId string, executionId string, status string) {
	lc.logger.Info("execution_finished", zap.String("automationId", automationId), zap.String("executionId", executionId), zap.String("status", status))
}
