package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/pentasign/pentasign-sdk/signing/values"
)

// IdentityPrompter asks for a SOFI ID when none was configured.
type IdentityPrompter interface {
	IsInteractive() bool
	PromptIdentity(numeric bool) (string, error)
}

// TerminalPrompter prompts on the controlling terminal.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// PromptIdentity reads a SOFI ID. With numeric set, only digits are accepted.
func (p *TerminalPrompter) PromptIdentity(numeric bool) (string, error) {
	var sofi string
	err := huh.NewInput().
		Title("SOFI ID").
		Description("Identity bound into the signature. It is stored in the bundle in clear text.").
		Value(&sofi).
		Validate(identityValidator(numeric)).
		Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sofi), nil
}

func identityValidator(numeric bool) func(string) error {
	return func(s string) error {
		id, err := values.NewIdentity(strings.TrimSpace(s))
		if err != nil {
			return errors.New("SOFI ID must not be empty")
		}
		if numeric && !id.IsNumeric() {
			return errors.New("SOFI ID must contain digits only")
		}
		return nil
	}
}
