package dto

// AnalyzeRequest 可选按 id 指定单条创意，空则触发整轮工作流
type AnalyzeRequest struct {
	IdeaID string `json:"idea_id" binding:"omitempty,len=24,hexadecimal"`
}
