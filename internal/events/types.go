package events

import "time"

// Submission 代表进入 SQ 的一次用户输入。
type Submission struct {
	ID        string
	Text      string
	Timestamp time.Time
	Metadata  map[string]string
}

// EventType 描述 EQ 中分发的事件类型。
type EventType string

const (
	EventSubmissionAccepted EventType = "submission.accepted"
	EventTurnStarted        EventType = "turn.started"
	// EventTurnReply 携带 TurnReply，每个 turn 至多一次。
	EventTurnReply     EventType = "turn.reply"
	EventTurnCompleted EventType = "turn.completed"
	EventTurnError     EventType = "turn.error"
)

// TurnReply 是后端给出的可渲染文本。
type TurnReply struct {
	Text    string        `json:"text"`
	Kind    string        `json:"kind"`
	Elapsed time.Duration `json:"elapsed"`
}

// TurnResult 描述 turn 的完成状态。
type TurnResult struct {
	Status  string        `json:"status"` // completed|failed
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Event 是 EQ 中传递的唯一消息格式。Payload 的具体结构由 Type 决定。
type Event struct {
	Type         EventType
	SubmissionID string
	Timestamp    time.Time
	Payload      any
	Metadata     map[string]string
}
