package window

import "time"

// Phase 是窗口生命周期阶段：Splash 淡入淡出，Loading 显示启动提示，Ready 可以对话。
type Phase int

const (
	PhaseSplash Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseSplash:
		return "splash"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// DefaultPhaseInterval 是阶段动画的调度周期。
const DefaultPhaseInterval = 50 * time.Millisecond

// fadePalette 从背景色渐变到标题色，Splash 先正序后逆序播放。
var fadePalette = []string{
	"#1F1D2B", "#36284A", "#4E336A", "#673F8A", "#7D56F4", "#A66CC1", "#D07A8E", "#FF8C42",
}

type phaseTickMsg struct{}

// phaseMachine 由单一 tick 推进。每个 tick 调用一次 advance。
type phaseMachine struct {
	phase        Phase
	step         int
	holdSteps    int
	loadingSteps int
}

func newPhaseMachine(holdSteps, loadingSteps int) phaseMachine {
	if holdSteps < 0 {
		holdSteps = 0
	}
	if loadingSteps < 0 {
		loadingSteps = 0
	}
	return phaseMachine{phase: PhaseSplash, holdSteps: holdSteps, loadingSteps: loadingSteps}
}

func (p *phaseMachine) splashSteps() int {
	return 2*len(fadePalette) + p.holdSteps
}

// advance 推进一步，返回阶段是否发生变化。
func (p *phaseMachine) advance() bool {
	switch p.phase {
	case PhaseSplash:
		p.step++
		if p.step >= p.splashSteps() {
			p.phase, p.step = PhaseLoading, 0
			return true
		}
	case PhaseLoading:
		p.step++
		if p.step >= p.loadingSteps {
			p.phase, p.step = PhaseReady, 0
			return true
		}
	}
	return false
}

// skip 直接进入 Ready。
func (p *phaseMachine) skip() {
	p.phase, p.step = PhaseReady, 0
}

// fadeColor 返回 Splash 当前步对应的颜色。
func (p *phaseMachine) fadeColor() string {
	n := len(fadePalette)
	switch {
	case p.step < n:
		return fadePalette[p.step]
	case p.step < n+p.holdSteps:
		return fadePalette[n-1]
	default:
		idx := n - 1 - (p.step - n - p.holdSteps)
		if idx < 0 {
			idx = 0
		}
		return fadePalette[idx]
	}
}

// loadingDots 返回 Loading 阶段的省略号动画。
func (p *phaseMachine) loadingDots() string {
	return [...]string{"", ".", "..", "..."}[p.step%4]
}
