package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input. Commands use it for anything interactive.
type Prompter interface {
	EditEntry(title, initial string) (string, error)
	Confirm(title string) (bool, error)
}

// HuhPrompter prompts on the terminal with huh forms.
type HuhPrompter struct{}

func (HuhPrompter) EditEntry(title, initial string) (string, error) {
	text := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Description("Leave empty to remove the entry.").
				CharLimit(0).
				Value(&text),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	return text, nil
}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrAborted
		}
		return false, err
	}
	return ok, nil
}
