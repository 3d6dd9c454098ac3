package command

import "strings"

// Command is the closed set of operations the router knows.
type Command int

const (
	CommandUnknown Command = iota
	CommandList
	CommandOrder
	CommandCancel
	CommandHelp
	CommandRandom
	CommandSend
)

func (c Command) String() string {
	switch c {
	case CommandList:
		return "list"
	case CommandOrder:
		return "order"
	case CommandCancel:
		return "cancel"
	case CommandHelp:
		return "help"
	case CommandRandom:
		return "random"
	case CommandSend:
		return "send"
	default:
		return "unknown"
	}
}

// Keywords maps the words users type to commands.
type Keywords struct {
	List   string
	Order  string
	Cancel string
	Help   string
	Random string
	Send   string
}

// DefaultKeywords are used for every keyword left empty in Settings.
var DefaultKeywords = Keywords{
	List:   "list",
	Order:  "order",
	Cancel: "cancel",
	Help:   "help",
	Random: "random",
	Send:   "send",
}

func (k Keywords) withDefaults() Keywords {
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return Keywords{
		List:   pick(k.List, DefaultKeywords.List),
		Order:  pick(k.Order, DefaultKeywords.Order),
		Cancel: pick(k.Cancel, DefaultKeywords.Cancel),
		Help:   pick(k.Help, DefaultKeywords.Help),
		Random: pick(k.Random, DefaultKeywords.Random),
		Send:   pick(k.Send, DefaultKeywords.Send),
	}
}

// Decode resolves a typed keyword, case-insensitively. An empty keyword asks for help.
func (k Keywords) Decode(keyword string) Command {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return CommandHelp
	}

	switch {
	case strings.EqualFold(keyword, k.List):
		return CommandList
	case strings.EqualFold(keyword, k.Order):
		return CommandOrder
	case strings.EqualFold(keyword, k.Cancel):
		return CommandCancel
	case strings.EqualFold(keyword, k.Help):
		return CommandHelp
	case strings.EqualFold(keyword, k.Random):
		return CommandRandom
	case strings.EqualFold(keyword, k.Send):
		return CommandSend
	default:
		return CommandUnknown
	}
}
