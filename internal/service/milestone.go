package service

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/pkg/consts"
)

// ActionKind 里程碑驱动动作类型
type ActionKind string

const (
	ActionRecord  ActionKind = "Record"
	ActionAnalyze ActionKind = "Analyze"
)

// MilestoneAction 一条到期动作
type MilestoneAction struct {
	Kind ActionKind
	Day  int
}

// MilestoneState 单个里程碑的录制/分析状态
type MilestoneState struct {
	Recorded bool
	Analyzed bool
}

// DueActions 纯决策函数：给定发布天数与各里程碑状态，按天数升序给出到期动作。
// 录制必须逐级推进：D7 要等 D1 录完，D30 要等 D7，依此类推，一次只补一级；
// 分析只看本级已录制且分析字段为空，与录制解耦，模型临时失败不会卡住后续录制。
// 无内部状态，相同输入重复调用结论一致。
func DueActions(daysSincePost int, states map[int]MilestoneState) []MilestoneAction {
	var actions []MilestoneAction

	for i, day := range consts.MilestoneDays {
		state := states[day]

		if !state.Recorded {
			prevRecorded := i == 0 || states[consts.MilestoneDays[i-1]].Recorded
			if daysSincePost >= day && prevRecorded {
				actions = append(actions, MilestoneAction{Kind: ActionRecord, Day: day})
			}
		}

		if state.Recorded && !state.Analyzed {
			actions = append(actions, MilestoneAction{Kind: ActionAnalyze, Day: day})
		}
	}

	return actions
}

// MilestoneStates 从追踪记录提取状态表
func MilestoneStates(video *model.TrackedVideo) map[int]MilestoneState {
	states := make(map[int]MilestoneState, len(consts.MilestoneDays))
	for _, day := range consts.MilestoneDays {
		m := video.MilestoneByDay(day)
		states[day] = MilestoneState{
			Recorded: m.Recorded(),
			Analyzed: m.Analyzed(),
		}
	}
	return states
}
