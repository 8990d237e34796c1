package domain

// IntentType classifies what the user typed at the interactive prompt.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentList
	IntentNext
	IntentTaken
	IntentDelete
	IntentHistory
	IntentEnable
	IntentRefresh
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentList:
		return "list"
	case IntentNext:
		return "next"
	case IntentTaken:
		return "taken"
	case IntentDelete:
		return "delete"
	case IntentHistory:
		return "history"
	case IntentEnable:
		return "enable"
	case IntentRefresh:
		return "refresh"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // medicine reference or search query
}
