package job

import (
	"CreatorPulse/internal/pkg/logger"
	"CreatorPulse/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// AnalyticsJob 数据工作流的定时入口：先同步平台指标，再跑里程碑巡检。
// 巡检冻结的是同步刚写入的 current 快照，顺序不能倒
type AnalyticsJob struct {
	workflow *service.Workflow
	syncSvc  service.SyncService
	cycleSvc service.CycleService
}

func NewAnalyticsJob(workflow *service.Workflow, syncSvc service.SyncService, cycleSvc service.CycleService) *AnalyticsJob {
	return &AnalyticsJob{
		workflow: workflow,
		syncSvc:  syncSvc,
		cycleSvc: cycleSvc,
	}
}

func (s *AnalyticsJob) Run() {
	traceID := "job-analytics-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	if !s.workflow.TryStart() {
		log.WarnContext(ctx, "analytics workflow still running, tick skipped")
		return
	}

	syncStats := s.syncSvc.SyncAll(ctx)
	cycleStats := s.cycleSvc.RunCycle(ctx)

	merged := syncStats.AsMap()
	for k, v := range cycleStats.AsMap() {
		merged[k] = v
	}
	s.workflow.Finish(merged)
}
