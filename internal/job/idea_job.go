package job

import (
	"CreatorPulse/internal/pkg/logger"
	"CreatorPulse/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// IdeaJob 创意分析工作流的定时入口
type IdeaJob struct {
	workflow *service.Workflow
	analyzer service.AnalyzerService
}

func NewIdeaJob(workflow *service.Workflow, analyzer service.AnalyzerService) *IdeaJob {
	return &IdeaJob{
		workflow: workflow,
		analyzer: analyzer,
	}
}

func (s *IdeaJob) Run() {
	traceID := "job-idea-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	if !s.workflow.TryStart() {
		log.WarnContext(ctx, "idea workflow still running, tick skipped")
		return
	}

	stats := s.analyzer.ProcessIdeas(ctx)
	s.workflow.Finish(stats.AsMap())
}
