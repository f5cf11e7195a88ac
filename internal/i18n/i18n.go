package i18n

import "strings"

// Language 描述界面文案使用的语言，使用简短的语言代码（如 en、zh）。
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"

	// DefaultLanguage 未配置时的默认语言。
	DefaultLanguage = LanguageEnglish
)

// Normalize 将用户输入的语言值转换为统一的语言代码。
// 空字符串回退到默认语言，未知值原样保留。
func Normalize(value string) Language {
	lang := strings.ToLower(strings.TrimSpace(value))
	switch lang {
	case "":
		return DefaultLanguage
	case "zh", "zh-cn", "zh_cn", "zh-hans", "cn", "chinese", "中文":
		return LanguageChinese
	case "en", "en-us", "en_us", "en-gb", "english":
		return LanguageEnglish
	default:
		return Language(lang)
	}
}

// Code 返回规范化后的语言代码。
func (l Language) Code() string {
	return string(Normalize(string(l)))
}

// DisplayName 返回适合展示的语言名称，未知语言返回原始代码。
func (l Language) DisplayName() string {
	switch Normalize(string(l)) {
	case LanguageChinese:
		return "中文"
	case LanguageEnglish:
		return "English"
	default:
		return strings.TrimSpace(string(l))
	}
}

// Messages 汇总所有面向用户的固定文案。Thought 为 fmt 格式串，参数为耗时秒数。
type Messages struct {
	Starting    string
	Ready       string
	Mode        string
	Prompt      string
	Farewell    string
	Interrupted string
	Fallback    string
	ErrorPrefix string
	Thinking    string
	Thought     string
	Busy        string
	Placeholder string
	Send        string

	// 窗口状态栏与斜杠命令文案。CopyFailed 的参数为错误，UnknownCommand 的参数为命令。
	Copied         string
	CopyFailed     string
	NothingToCopy  string
	UnknownCommand string
	NoBackend      string
	CmdClear       string
	CmdCopy        string
	CmdHelp        string
	CmdExit        string

	// WaitingForTurn 在关闭窗口时仍有回复未完成时打印到 stderr。
	WaitingForTurn string
}

var english = Messages{
	Starting:    "🔄 Starting HELIOS CTF Assistant...",
	Ready:       "🔥 HELIOS CTF Assistant Ready!",
	Mode:        "⚡ Simple conversational mode with Ollama LLM",
	Prompt:      "🎯 You: ",
	Farewell:    "👋 Happy hacking! See you next time!",
	Interrupted: "👋 Caught Ctrl+C - Exiting HELIOS...",
	Fallback:    "I'm having trouble connecting to the AI. Try asking again!",
	ErrorPrefix: "❌ Error: ",
	Thinking:    "thinking",
	Thought:     "thought for %.1f seconds",
	Busy:        "still thinking, please wait for the current reply",
	Placeholder: "Ask HELIOS anything…",
	Send:        "Send",

	Copied:         "copied last reply",
	CopyFailed:     "copy failed: %v",
	NothingToCopy:  "nothing to copy yet",
	UnknownCommand: "unknown command %s",
	NoBackend:      "no backend configured",
	CmdClear:       "clear the transcript",
	CmdCopy:        "copy the last reply to the clipboard",
	CmdHelp:        "list commands",
	CmdExit:        "close the window",
	WaitingForTurn: "⏳ Waiting for the current reply to finish...",
}

var chinese = Messages{
	Starting:    "🔄 正在启动 HELIOS CTF 助手...",
	Ready:       "🔥 HELIOS CTF 助手已就绪！",
	Mode:        "⚡ 基于 Ollama 的简洁对话模式",
	Prompt:      "🎯 你: ",
	Farewell:    "👋 祝你玩得开心，下次见！",
	Interrupted: "👋 收到 Ctrl+C，正在退出 HELIOS...",
	Fallback:    "暂时无法连接到 AI，请再问一次！",
	ErrorPrefix: "❌ 错误: ",
	Thinking:    "思考中",
	Thought:     "思考了 %.1f 秒",
	Busy:        "仍在思考，请等待当前回复",
	Placeholder: "向 HELIOS 提问…",
	Send:        "发送",

	Copied:         "已复制上一条回复",
	CopyFailed:     "复制失败: %v",
	NothingToCopy:  "还没有可复制的回复",
	UnknownCommand: "未知命令 %s",
	NoBackend:      "未配置后端",
	CmdClear:       "清空记录",
	CmdCopy:        "复制上一条回复到剪贴板",
	CmdHelp:        "列出命令",
	CmdExit:        "关闭窗口",
	WaitingForTurn: "⏳ 正在等待当前回复完成...",
}

// For 返回语言对应的文案，未知语言回退到英文。
func For(l Language) Messages {
	if Normalize(string(l)) == LanguageChinese {
		return chinese
	}
	return english
}
