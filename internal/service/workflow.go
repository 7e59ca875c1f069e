package service

import (
	"sync"
	"time"
)

// WorkflowState 工作流运行状态
type WorkflowState string

const (
	WorkflowIdle    WorkflowState = "Idle"
	WorkflowRunning WorkflowState = "Running"
)

// Workflow 单条工作流的 Idle -> Running -> Idle 状态机，
// 同一工作流不允许并发执行，不同工作流互不影响
type Workflow struct {
	name string

	mu        sync.Mutex
	state     WorkflowState
	lastStart time.Time
	lastEnd   time.Time
	lastStats map[string]int64
}

func NewWorkflow(name string) *Workflow {
	return &Workflow{
		name:  name,
		state: WorkflowIdle,
	}
}

func (w *Workflow) Name() string {
	return w.name
}

// TryStart 尝试进入 Running，已在执行中则拒绝
func (w *Workflow) TryStart() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == WorkflowRunning {
		return false
	}
	w.state = WorkflowRunning
	w.lastStart = time.Now()
	return true
}

// Finish 回到 Idle 并记录本次运行的统计
func (w *Workflow) Finish(stats map[string]int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = WorkflowIdle
	w.lastEnd = time.Now()
	if stats != nil {
		w.lastStats = stats
	}
}

func (w *Workflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Snapshot 输出给 /status 的只读视图
func (w *Workflow) Snapshot() map[string]interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := map[string]interface{}{
		"name":  w.name,
		"state": string(w.state),
	}
	if !w.lastStart.IsZero() {
		snap["last_start"] = w.lastStart
	}
	if !w.lastEnd.IsZero() {
		snap["last_end"] = w.lastEnd
	}
	if w.lastStats != nil {
		snap["last_stats"] = w.lastStats
	}
	return snap
}
