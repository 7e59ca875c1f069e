package handler

import (
	"CreatorPulse/internal/api/dto"
	"CreatorPulse/internal/pkg/logger"
	"CreatorPulse/internal/pkg/response"
	"CreatorPulse/internal/service"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ControlHandler 工作流触发与状态查询入口
type ControlHandler struct {
	ideaWorkflow      *service.Workflow
	analyticsWorkflow *service.Workflow
	reportWorkflow    *service.Workflow

	analyzerSvc service.AnalyzerService
	syncSvc     service.SyncService
	cycleSvc    service.CycleService
	reportSvc   service.ReportService
}

func NewControlHandler(
	ideaWorkflow *service.Workflow,
	analyticsWorkflow *service.Workflow,
	reportWorkflow *service.Workflow,
	analyzerSvc service.AnalyzerService,
	syncSvc service.SyncService,
	cycleSvc service.CycleService,
	reportSvc service.ReportService,
) *ControlHandler {
	return &ControlHandler{
		ideaWorkflow:      ideaWorkflow,
		analyticsWorkflow: analyticsWorkflow,
		reportWorkflow:    reportWorkflow,
		analyzerSvc:       analyzerSvc,
		syncSvc:           syncSvc,
		cycleSvc:          cycleSvc,
		reportSvc:         reportSvc,
	}
}

func (s *ControlHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// Status 各工作流当前状态与上一轮统计
func (s *ControlHandler) Status(c *gin.Context) {
	response.Success(c, gin.H{
		"workflows": []map[string]interface{}{
			s.ideaWorkflow.Snapshot(),
			s.analyticsWorkflow.Snapshot(),
			s.reportWorkflow.Snapshot(),
		},
	})
}

// TriggerAnalyze 手动触发创意分析。带 idea_id 时同步处理单条，
// 否则整轮工作流转后台执行
func (s *ControlHandler) TriggerAnalyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, err)
		return
	}

	if req.IdeaID != "" {
		stats, err := s.analyzerSvc.AnalyzeByID(c.Request.Context(), req.IdeaID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, stats)
		return
	}

	if !s.ideaWorkflow.TryStart() {
		response.Error(c, service.ErrWorkflowRunning)
		return
	}

	ctx := detachedContext(c, "api-idea-")
	go func() {
		stats := s.analyzerSvc.ProcessIdeas(ctx)
		s.ideaWorkflow.Finish(stats.AsMap())
	}()

	response.Async(c, gin.H{"workflow": s.ideaWorkflow.Name()})
}

// TriggerAnalytics 手动触发数据工作流：同步在前，巡检在后
func (s *ControlHandler) TriggerAnalytics(c *gin.Context) {
	if !s.analyticsWorkflow.TryStart() {
		response.Error(c, service.ErrWorkflowRunning)
		return
	}

	ctx := detachedContext(c, "api-analytics-")
	go func() {
		syncStats := s.syncSvc.SyncAll(ctx)
		cycleStats := s.cycleSvc.RunCycle(ctx)

		merged := syncStats.AsMap()
		for k, v := range cycleStats.AsMap() {
			merged[k] = v
		}
		s.analyticsWorkflow.Finish(merged)
	}()

	response.Async(c, gin.H{"workflow": s.analyticsWorkflow.Name()})
}

func (s *ControlHandler) AnalyticsSummary(c *gin.Context) {
	summary, err := s.reportSvc.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

// VideoDetail 单条追踪视频的里程碑明细
func (s *ControlHandler) VideoDetail(c *gin.Context) {
	video, err := s.reportSvc.VideoDetail(c.Request.Context(), c.Param("video_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, video)
}

// PreviewReport 渲染周报正文但不投递
func (s *ControlHandler) PreviewReport(c *gin.Context) {
	body, err := s.reportSvc.ComposeReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// SendReport 立即组报并投递，与定时周报共用 Running 互斥
func (s *ControlHandler) SendReport(c *gin.Context) {
	if !s.reportWorkflow.TryStart() {
		response.Error(c, service.ErrWorkflowRunning)
		return
	}

	err := s.reportSvc.SendReport(c.Request.Context())
	s.reportWorkflow.Finish(nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// detachedContext 后台任务不能挂在请求生命周期上，只带走 trace id
func detachedContext(c *gin.Context, prefix string) context.Context {
	traceID, _ := c.Request.Context().Value(logger.TraceIDKey).(string)
	if traceID == "" {
		traceID = prefix + uuid.NewString()
	}
	return context.WithValue(context.Background(), logger.TraceIDKey, traceID)
}
