package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LLM       LLMConfig       `mapstructure:"llm"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	TikTok    TikTokConfig    `mapstructure:"tiktok"`
	Email     EmailConfig     `mapstructure:"email"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// MongoConfig 记录库配置，两个集合分别承载创意与追踪视频
type MongoConfig struct {
	URL             string `mapstructure:"url"`
	Database        string `mapstructure:"database"`
	IdeaCollection  string `mapstructure:"idea_collection"`
	VideoCollection string `mapstructure:"video_collection"`
	CredCollection  string `mapstructure:"cred_collection"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LLMConfig struct {
	URL         string           `mapstructure:"url"`
	TextModel   string           `mapstructure:"text_model"`
	ApiKey      string           `mapstructure:"api_key"`
	MaxTokens   int              `mapstructure:"max_tokens"`
	PromptsPath PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	IdeaAnalysis      string `mapstructure:"idea_analysis"`
	MilestoneAnalysis string `mapstructure:"milestone_analysis"`
	Brainstorm        string `mapstructure:"brainstorm"`
	WeeklyReport      string `mapstructure:"weekly_report"`
}

// YouTubeConfig YouTube Data API 配置
type YouTubeConfig struct {
	ApiKey    string `mapstructure:"api_key"`
	ChannelID string `mapstructure:"channel_id"`
}

// TikTokConfig TikTok 开放平台配置，token 对保存在记录库中
type TikTokConfig struct {
	ClientKey    string `mapstructure:"client_key"`
	ClientSecret string `mapstructure:"client_secret"`
}

// EmailConfig 邮件投递服务配置
type EmailConfig struct {
	URL    string `mapstructure:"url"`
	ApiKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
}

// SchedulerConfig 各工作流的触发周期，周报用 6 段 cron 表达式
type SchedulerConfig struct {
	PollIntervalMinutes    int    `mapstructure:"poll_interval_minutes"`
	AnalyticsIntervalHours int    `mapstructure:"analytics_interval_hours"`
	ReportCron             string `mapstructure:"report_cron"`
}
