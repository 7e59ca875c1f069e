package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflow_Transitions(t *testing.T) {
	w := NewWorkflow("ideas")

	assert.Equal(t, WorkflowIdle, w.State())

	assert.True(t, w.TryStart())
	assert.Equal(t, WorkflowRunning, w.State())

	// 执行中拒绝重入
	assert.False(t, w.TryStart())

	w.Finish(map[string]int64{"processed": 3})
	assert.Equal(t, WorkflowIdle, w.State())

	// 回到 Idle 后可以再次启动
	assert.True(t, w.TryStart())
	w.Finish(nil)
}

func TestWorkflow_SnapshotCarriesStats(t *testing.T) {
	w := NewWorkflow("analytics")
	w.TryStart()
	w.Finish(map[string]int64{"videos_synced": 12})

	snap := w.Snapshot()
	assert.Equal(t, "analytics", snap["name"])
	assert.Equal(t, "Idle", snap["state"])
	assert.Equal(t, map[string]int64{"videos_synced": 12}, snap["last_stats"])
}
