// Package console parses the keyword commands typed at the interactive
// prompt.
package console

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches prompt input to intents using keywords. The
// first word selects the intent; the rest of the line is the payload.
type KeywordParser struct {
	log   *logger.Logger
	rules []rule
}

type rule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// needsPayload intents come back as unknown when nothing follows the
	// keyword.
	needsPayload bool
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	return &KeywordParser{
		log: log,
		rules: []rule{
			{regexp.MustCompile(`(?i)^(list|ls|show|search|find)(\s+(.*))?$`), domain.IntentList, false},
			{regexp.MustCompile(`(?i)^(next|due|upcoming)$`), domain.IntentNext, false},
			{regexp.MustCompile(`(?i)^(taken|take|took|done|t)(\s+(.*))?$`), domain.IntentTaken, true},
			{regexp.MustCompile(`(?i)^(rm|remove|delete|del)(\s+(.*))?$`), domain.IntentDelete, true},
			{regexp.MustCompile(`(?i)^(history|hist|log)(\s+(.*))?$`), domain.IntentHistory, true},
			{regexp.MustCompile(`(?i)^(enable|allow|notifications|notify)$`), domain.IntentEnable, false},
			{regexp.MustCompile(`(?i)^(refresh|reload|r)$`), domain.IntentRefresh, false},
			{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp, false},
			{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit, false},
		},
	}
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, r := range p.rules {
		m := r.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		var payload string
		if len(m) > 3 {
			payload = strings.TrimSpace(m[3])
		}
		if r.needsPayload && payload == "" {
			break
		}
		p.log.Debug("matched intent: %s", r.intent)
		return &domain.Intent{Type: r.intent, Payload: payload}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// Help is the command summary shown for IntentHelp.
const Help = `commands:
  list [query]     show medicines, optionally filtered
  next             show the next due dose
  taken <ref>      record a dose (ref: list number, id or name)
  history <ref>    show recent doses
  rm <ref>         delete a medicine
  enable           allow reminder notifications
  refresh          rebuild the reminder schedule
  help             this text
  quit             leave`
