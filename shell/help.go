package shell

import (
	"embed"
	"strings"

	"github.com/chzyer/readline"
)

//go:embed helptext
var helptext embed.FS

var completer = readline.NewPrefixCompleter(
	readline.PcItem("new"),
	readline.PcItem("show"),
	readline.PcItem("guess"),
	readline.PcItem("solutions"),
	readline.PcItem("query"),
	readline.PcItem("anagram", readline.PcItem("exact")),
	readline.PcItem("reload"),
	readline.PcItem("settings"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	topic := "usage"
	if len(cmd.args) > 0 {
		topic = cmd.args[0]
	}
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return msg("There is no help text for the topic " + topic), nil
	}
	return msg(strings.TrimRight(string(dat), "\n")), nil
}
