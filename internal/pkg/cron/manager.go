package cron

import (
	"CreatorPulse/internal/api/config"
	"CreatorPulse/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	scheduler    config.SchedulerConfig
	ideaJob      *job.IdeaJob
	analyticsJob *job.AnalyticsJob
	reportJob    *job.ReportJob
}

func NewCronManager(scheduler config.SchedulerConfig, ideaJob *job.IdeaJob, analyticsJob *job.AnalyticsJob, reportJob *job.ReportJob) *Manager {
	return &Manager{
		engine:       cron.New(cron.WithSeconds()),
		scheduler:    scheduler,
		ideaJob:      ideaJob,
		analyticsJob: analyticsJob,
		reportJob:    reportJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	ideaSpec := fmt.Sprintf("@every %dm", s.scheduler.PollIntervalMinutes)
	if _, err := s.engine.AddJob(ideaSpec, s.ideaJob); err != nil {
		return err
	}

	analyticsSpec := fmt.Sprintf("@every %dh", s.scheduler.AnalyticsIntervalHours)
	if _, err := s.engine.AddJob(analyticsSpec, s.analyticsJob); err != nil {
		return err
	}

	if _, err := s.engine.AddJob(s.scheduler.ReportCron, s.reportJob); err != nil {
		return err
	}

	log.Info("定时任务注册完成",
		"idea", ideaSpec,
		"analytics", analyticsSpec,
		"report", s.scheduler.ReportCron)
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
