package job

import (
	"CreatorPulse/internal/pkg/logger"
	"CreatorPulse/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/google/uuid"
)

// ReportJob 周报工作流的定时入口
type ReportJob struct {
	workflow  *service.Workflow
	reportSvc service.ReportService
}

func NewReportJob(workflow *service.Workflow, reportSvc service.ReportService) *ReportJob {
	return &ReportJob{
		workflow:  workflow,
		reportSvc: reportSvc,
	}
}

func (s *ReportJob) Run() {
	traceID := "job-report-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	if !s.workflow.TryStart() {
		log.WarnContext(ctx, "report workflow still running, tick skipped")
		return
	}

	stats := map[string]int64{"reports_sent": 0}
	err := s.reportSvc.SendReport(ctx)
	switch {
	case err == nil:
		stats["reports_sent"] = 1
		log.InfoContext(ctx, "weekly report sent")
	case errors.Is(err, service.ErrReportNotReady):
		// 还没有追踪数据时跳过本期，不算失败
		log.InfoContext(ctx, "weekly report skipped, no tracked videos yet")
	default:
		stats["errors"] = 1
		log.ErrorContext(ctx, "send weekly report error", "err", err)
	}

	s.workflow.Finish(stats)
}
