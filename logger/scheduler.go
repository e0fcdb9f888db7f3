package logger

import (
	loggergo "github.com/Alonza0314/logger-go/v2"
	loggergoModel "github.com/Alonza0314/logger-go/v2/model"
	loggergoUtil "github.com/Alonza0314/logger-go/v2/util"
)

// SchedulerLogger tags every log line with the sub-scheduler that
// produced it, the way GnbLogger/ConsoleLogger tag theirs in the
// UE-side sibling project.
type SchedulerLogger struct {
	*loggergo.Logger

	CfgLog     loggergoModel.LoggerInterface
	CarrierLog loggergoModel.LoggerInterface
	BcLog      loggergoModel.LoggerInterface
	RaLog      loggergoModel.LoggerInterface
	SfLog      loggergoModel.LoggerInterface
	PhichLog   loggergoModel.LoggerInterface
	MetricLog  loggergoModel.LoggerInterface
}

func NewSchedulerLogger(level loggergoUtil.LogLevelString, filePath string, debugMode bool) *SchedulerLogger {
	logger := loggergo.NewLogger(filePath, debugMode)
	logger.SetLevel(level)

	return &SchedulerLogger{
		Logger: logger,

		CfgLog:     logger.WithTags(SCHED_TAG, CONFIG_TAG),
		CarrierLog: logger.WithTags(SCHED_TAG, CARRIER_TAG),
		BcLog:      logger.WithTags(SCHED_TAG, BC_TAG),
		RaLog:      logger.WithTags(SCHED_TAG, RA_TAG),
		SfLog:      logger.WithTags(SCHED_TAG, SF_TAG),
		PhichLog:   logger.WithTags(SCHED_TAG, PHICH_TAG),
		MetricLog:  logger.WithTags(SCHED_TAG, METRIC_TAG),
	}
}
