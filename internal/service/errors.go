package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid    = errors.New("参数错误")
	ErrIdeaNotFound    = errors.New("创意不存在")
	ErrIdeaPosted      = errors.New("创意已发布，不再进入分析")
	ErrVideoNotFound   = errors.New("追踪视频不存在")
	ErrWorkflowRunning = errors.New("工作流正在执行中")
	ErrReportNotReady  = errors.New("报告数据不足")
	UnExpectedError    = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrIdeaNotFound:    NotFound,
	ErrIdeaPosted:      Conflict,
	ErrVideoNotFound:   NotFound,
	ErrWorkflowRunning: Conflict,
	ErrReportNotReady:  BadRequest,
	UnExpectedError:    InternalServerError,
}
