package consts

const (
	// IdeaLockKey 创意写回的跨工作流互斥锁前缀
	IdeaLockKey = "creatorpulse:idea:lock:"
	// SummaryCacheKey 数据总览缓存
	SummaryCacheKey = "creatorpulse:analytics:summary"
)
