package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statesFromMask(recorded [4]bool, analyzed [4]bool) map[int]MilestoneState {
	days := []int{1, 7, 30, 90}
	states := make(map[int]MilestoneState, 4)
	for i, day := range days {
		states[day] = MilestoneState{Recorded: recorded[i], Analyzed: analyzed[i]}
	}
	return states
}

func recordActions(actions []MilestoneAction) []int {
	var days []int
	for _, a := range actions {
		if a.Kind == ActionRecord {
			days = append(days, a.Day)
		}
	}
	return days
}

func TestDueActions_SequentialRecording(t *testing.T) {
	days := []int{0, 1, 6, 7, 29, 30, 89, 90, 91}

	// 遍历天数与已录里程碑的全部组合：未录满前级的里程碑绝不允许录制
	for _, d := range days {
		for mask := 0; mask < 16; mask++ {
			var recorded [4]bool
			for i := 0; i < 4; i++ {
				recorded[i] = mask&(1<<i) != 0
			}

			actions := DueActions(d, statesFromMask(recorded, [4]bool{}))

			milestoneDays := []int{1, 7, 30, 90}
			for _, rd := range recordActions(actions) {
				idx := -1
				for i, md := range milestoneDays {
					if md == rd {
						idx = i
					}
				}
				require.GreaterOrEqual(t, d, rd, "days=%d mask=%b", d, mask)
				for i := 0; i < idx; i++ {
					assert.True(t, recorded[i],
						"Record(%d) issued while milestone %d unrecorded (days=%d mask=%b)",
						rd, milestoneDays[i], d, mask)
				}
			}
		}
	}
}

func TestDueActions_OneTierPerPass(t *testing.T) {
	// 40 天的老视频第一次被发现：只能先录 D1
	actions := DueActions(40, statesFromMask([4]bool{}, [4]bool{}))

	assert.Equal(t, []int{1}, recordActions(actions))
}

func TestDueActions_AnalyzeGatedOnRecorded(t *testing.T) {
	// D1 已录未分析，D7 已录已分析
	actions := DueActions(8, statesFromMask(
		[4]bool{true, true, false, false},
		[4]bool{false, true, false, false},
	))

	var analyzeDays []int
	for _, a := range actions {
		if a.Kind == ActionAnalyze {
			analyzeDays = append(analyzeDays, a.Day)
		}
	}
	assert.Equal(t, []int{1}, analyzeDays)
}

func TestDueActions_Idempotent(t *testing.T) {
	states := statesFromMask([4]bool{true, false, false, false}, [4]bool{})

	first := DueActions(10, states)
	second := DueActions(10, states)

	assert.Equal(t, first, second)
}

func TestDueActions_SecondPassIsSetDifference(t *testing.T) {
	// 第一轮：D1 已录，到第 10 天 → 录 D7、析 D1
	first := DueActions(10, statesFromMask([4]bool{true, false, false, false}, [4]bool{}))
	assert.Equal(t, []MilestoneAction{
		{Kind: ActionAnalyze, Day: 1},
		{Kind: ActionRecord, Day: 7},
	}, first)

	// 执行后第二轮：不再重复已完成动作
	second := DueActions(10, statesFromMask(
		[4]bool{true, true, false, false},
		[4]bool{true, false, false, false},
	))
	assert.Equal(t, []MilestoneAction{
		{Kind: ActionAnalyze, Day: 7},
	}, second)
}

func TestDueActions_NothingDueOnDayZero(t *testing.T) {
	actions := DueActions(0, statesFromMask([4]bool{}, [4]bool{}))
	assert.Empty(t, actions)
}
