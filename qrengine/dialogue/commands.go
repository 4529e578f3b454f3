package dialogue

import (
	"strings"
)

// Command is a canonical navigation token, recognized independently of the
// user's locale.
type Command string

const (
	CommandNone     Command = "none"
	CommandStart    Command = "start"
	CommandCreate   Command = "create"
	CommandHelp     Command = "help"
	CommandLanguage Command = "language"
	CommandBack     Command = "back"
	CommandCancel   Command = "cancel"
	CommandSkip     Command = "skip"
)

// KeywordParser maps canonical keyword tokens to commands. The transport
// resolves localized button labels to these tokens before handing the
// event to the controller.
type KeywordParser struct {
	StartKeywords    []string
	CreateKeywords   []string
	HelpKeywords     []string
	LanguageKeywords []string
	BackKeywords     []string
	CancelKeywords   []string
	SkipKeywords     []string
}

// NewKeywordParser creates a parser with the default keyword sets.
func NewKeywordParser() *KeywordParser {
	return &KeywordParser{
		StartKeywords:    []string{"/start", "start"},
		CreateKeywords:   []string{"/new", "new", "create"},
		HelpKeywords:     []string{"/help", "help"},
		LanguageKeywords: []string{"/language", "language"},
		BackKeywords:     []string{"back"},
		CancelKeywords:   []string{"/cancel", "cancel"},
		SkipKeywords:     []string{"skip"},
	}
}

// Parse returns the command for input, or CommandNone.
func (p *KeywordParser) Parse(input string) Command {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch {
	case contains(p.CancelKeywords, normalized):
		return CommandCancel
	case contains(p.SkipKeywords, normalized):
		return CommandSkip
	case contains(p.StartKeywords, normalized):
		return CommandStart
	case contains(p.CreateKeywords, normalized):
		return CommandCreate
	case contains(p.HelpKeywords, normalized):
		return CommandHelp
	case contains(p.LanguageKeywords, normalized):
		return CommandLanguage
	case contains(p.BackKeywords, normalized):
		return CommandBack
	}
	return CommandNone
}

func contains(keywords []string, s string) bool {
	for _, k := range keywords {
		if k == s {
			return true
		}
	}
	return false
}
