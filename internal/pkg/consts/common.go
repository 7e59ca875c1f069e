package consts

// MilestoneDays 里程碑固定在发布后 1/7/30/90 天
var MilestoneDays = []int{1, 7, 30, 90}

const (
	PlatformYouTube   = "YouTube"
	PlatformTikTok    = "TikTok"
	PlatformInstagram = "Instagram"
)

// DefaultPlatform 解析失败时的分类兜底值
const DefaultPlatform = PlatformTikTok

const (
	// DefaultViralityScore 分数解析失败时的兜底中间值
	DefaultViralityScore = 50
	// MinViralityScore 分数下限
	MinViralityScore = 1
	// MaxViralityScore 分数上限
	MaxViralityScore = 100
	// BrainstormScoreFloor 头脑风暴产出创意的分数下限
	BrainstormScoreFloor = 75
	// BrainstormIdeaCount 一次头脑风暴固定产出的创意数
	BrainstormIdeaCount = 5
)

// HelpPrefix 命令式创意的标题前缀
const HelpPrefix = "help "
