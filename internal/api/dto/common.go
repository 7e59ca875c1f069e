package dto

// Response 统一响应结构
type Response struct {
	Code    int
	Message string
	Data    interface{}
}
