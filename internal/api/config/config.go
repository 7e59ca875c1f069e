package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("scheduler.poll_interval_minutes", 15)
	viper.SetDefault("scheduler.analytics_interval_hours", 6)
	// 周一早上九点发周报
	viper.SetDefault("scheduler.report_cron", "0 0 9 * * MON")
	viper.SetDefault("llm.max_tokens", 2000)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	Cfg = &cfg

	return nil
}

// Validate 缺少必需凭据视为致命错误，进程不允许带病启动
func (c *Config) Validate() error {
	required := map[string]string{
		"mongo.url":            c.Mongo.URL,
		"mongo.database":       c.Mongo.Database,
		"llm.api_key":          c.LLM.ApiKey,
		"youtube.api_key":      c.YouTube.ApiKey,
		"youtube.channel_id":   c.YouTube.ChannelID,
		"tiktok.client_key":    c.TikTok.ClientKey,
		"tiktok.client_secret": c.TikTok.ClientSecret,
	}
	for key, val := range required {
		if val == "" {
			return fmt.Errorf("missing required config: %s", key)
		}
	}

	if c.Mongo.IdeaCollection == "" {
		c.Mongo.IdeaCollection = "ideas"
	}
	if c.Mongo.VideoCollection == "" {
		c.Mongo.VideoCollection = "tracked_videos"
	}
	if c.Mongo.CredCollection == "" {
		c.Mongo.CredCollection = "platform_credentials"
	}

	return nil
}
