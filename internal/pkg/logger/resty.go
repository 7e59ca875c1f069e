package logger

import (
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// SetupResty 为平台 API 客户端挂载请求日志
func SetupResty(client *resty.Client, platform string) {
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		fields := []any{
			log.String("platform", platform),
			log.String("method", resp.Request.Method),
			log.String("url", resp.Request.URL),
			log.Int("status", resp.StatusCode()),
			log.Duration("latency", resp.Time()),
		}

		if resp.Time() > 2*time.Second {
			log.WarnContext(resp.Request.Context(), "PLATFORM_API_SLOW", fields...)
		} else {
			log.InfoContext(resp.Request.Context(), "PLATFORM_API", fields...)
		}
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		log.ErrorContext(req.Context(), "PLATFORM_API_ERROR",
			log.String("platform", platform),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Any("err", err),
		)
	})
}
