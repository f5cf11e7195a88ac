package window

import (
	"errors"
	"strings"
)

// ErrTranscriptLocked 表示在只读状态下追加内容。
var ErrTranscriptLocked = errors.New("transcript is read-only")

// Transcript 是窗口中的只读记录区。所有追加都必须在 Unlock/Lock 之间进行，
// 因此它可以直接作为 typewriter.Surface 使用。
type Transcript struct {
	b      strings.Builder
	locked bool
}

func NewTranscript() *Transcript {
	return &Transcript{locked: true}
}

func (t *Transcript) Append(unit string) error {
	if t.locked {
		return ErrTranscriptLocked
	}
	t.b.WriteString(unit)
	return nil
}

// Flush 无需动作：视口在每次 Update 结束时刷新。
func (t *Transcript) Flush() error { return nil }

func (t *Transcript) Unlock() { t.locked = false }

func (t *Transcript) Lock() { t.locked = true }

func (t *Transcript) Locked() bool { return t.locked }

// WriteLine 一次性追加整行，前后自动解锁与加锁。
func (t *Transcript) WriteLine(text string) {
	wasLocked := t.locked
	t.locked = false
	_ = t.Append(text + "\n")
	t.locked = wasLocked
}

// Reset 清空记录并恢复只读。
func (t *Transcript) Reset() {
	t.b.Reset()
	t.locked = true
}

func (t *Transcript) String() string {
	return t.b.String()
}
