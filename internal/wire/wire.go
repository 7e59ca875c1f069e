package wire

import (
	"CreatorPulse/internal/api"
	"CreatorPulse/internal/api/config"
	"CreatorPulse/internal/api/handler"
	"CreatorPulse/internal/job"
	"CreatorPulse/internal/pkg/cron"
	"CreatorPulse/internal/pkg/email"
	"CreatorPulse/internal/pkg/llm"
	"CreatorPulse/internal/platform"
	"CreatorPulse/internal/repository"
	"CreatorPulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	CronMgr *cron.Manager
}

func BuildApplication(db *mongo.Database, llmClient *llm.Client, cfg *config.Config) (*ApplicationContainer, error) {
	ideaRepo := repository.NewIdeaRepo(db, cfg.Mongo.IdeaCollection)
	videoRepo := repository.NewVideoRepo(db, cfg.Mongo.VideoCollection)
	credRepo := repository.NewCredentialRepo(db, cfg.Mongo.CredCollection)

	platforms := []platform.Client{
		platform.NewYouTubeClient(cfg.YouTube),
		platform.NewTikTokClient(cfg.TikTok, credRepo),
		platform.NewInstagramClient(),
	}

	prompts := llm.LoadPrompts(cfg.LLM.PromptsPath)
	locker := service.NewRedisLocker()
	sender := email.NewClient(cfg.Email)

	analyzerSvc := service.NewAnalyzerService(ideaRepo, llmClient, prompts, locker)
	syncSvc := service.NewSyncService(videoRepo, platforms)
	cycleSvc := service.NewCycleService(videoRepo, ideaRepo, analyzerSvc, locker)
	reportSvc := service.NewReportService(videoRepo, ideaRepo, llmClient, prompts, sender)

	ideaWorkflow := service.NewWorkflow("idea-analysis")
	analyticsWorkflow := service.NewWorkflow("analytics")
	reportWorkflow := service.NewWorkflow("weekly-report")

	handlers := &api.HandlersGroup{
		ControlHandler: handler.NewControlHandler(
			ideaWorkflow, analyticsWorkflow, reportWorkflow,
			analyzerSvc, syncSvc, cycleSvc, reportSvc,
		),
	}
	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(cfg.Scheduler,
		job.NewIdeaJob(ideaWorkflow, analyzerSvc),
		job.NewAnalyticsJob(analyticsWorkflow, syncSvc, cycleSvc),
		job.NewReportJob(reportWorkflow, reportSvc),
	)

	return &ApplicationContainer{
		Router:  router,
		CronMgr: cronMgr,
	}, nil
}
