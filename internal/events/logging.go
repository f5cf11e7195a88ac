package events

import (
	"encoding/json"
	"fmt"
	"io"

	"helios-cli/internal/logger"
)

// 默认的 SQ/EQ 日志文件路径。
const (
	DefaultSQLogPath = "logs/sq.log"
	DefaultEQLogPath = "logs/eq.log"
)

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

func newQueueLogger(component, path string) (*logger.LogEntry, io.Closer) {
	if path == "" {
		return logger.Named(component), nil
	}
	entry, closer, _, err := logger.SetupComponentFile(component, path)
	if err != nil {
		log.Warnf("failed to set up %s log file (%s): %v", component, path, err)
		return logger.Named(component), nil
	}
	return entry, closer
}

// encodePayload 把载荷压成单行：字符串原样保留，其余序列化为 JSON。
func encodePayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
