package window

import (
	"sort"
	"strings"

	"helios-cli/internal/i18n"

	"github.com/sahilm/fuzzy"
)

// slashCommand 是窗口内置的斜杠命令。EditsTranscript 的命令在 turn
// 进行中被拒绝，其余命令随时可用。
type slashCommand struct {
	Name            string
	EditsTranscript bool
}

const (
	cmdClear = "clear"
	cmdCopy  = "copy"
	cmdHelp  = "help"
	cmdExit  = "exit"
)

var slashCommands = []slashCommand{
	{Name: cmdClear, EditsTranscript: true},
	{Name: cmdCopy},
	{Name: cmdHelp},
	{Name: cmdExit},
}

func (c slashCommand) describe(msgs i18n.Messages) string {
	switch c.Name {
	case cmdClear:
		return msgs.CmdClear
	case cmdCopy:
		return msgs.CmdCopy
	case cmdHelp:
		return msgs.CmdHelp
	case cmdExit:
		return msgs.CmdExit
	}
	return ""
}

// suggestCommands 按模糊匹配给出候选；输入不以 / 开头时返回 nil。
func suggestCommands(input string) []slashCommand {
	token, ok := slashToken(input)
	if !ok {
		return nil
	}
	if token == "" {
		return append([]slashCommand(nil), slashCommands...)
	}
	names := make([]string, len(slashCommands))
	for i, c := range slashCommands {
		names[i] = c.Name
	}
	results := fuzzy.Find(strings.ToLower(token), names)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Str < results[j].Str
		}
		return results[i].Score > results[j].Score
	})
	out := make([]slashCommand, 0, len(results))
	for _, r := range results {
		out = append(out, slashCommands[r.Index])
	}
	return out
}

// lookupCommand 精确匹配命令名（忽略大小写）。
func lookupCommand(input string) (slashCommand, bool) {
	token, ok := slashToken(input)
	if !ok {
		return slashCommand{}, false
	}
	for _, c := range slashCommands {
		if strings.EqualFold(c.Name, token) {
			return c, true
		}
	}
	return slashCommand{}, false
}

func slashToken(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}
	token := strings.TrimPrefix(trimmed, "/")
	if i := strings.IndexAny(token, " \t"); i >= 0 {
		token = token[:i]
	}
	return token, true
}

func renderCommandHints(cmds []slashCommand, msgs i18n.Messages) string {
	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		parts = append(parts, "/"+c.Name+" "+c.describe(msgs))
	}
	return strings.Join(parts, " • ")
}
