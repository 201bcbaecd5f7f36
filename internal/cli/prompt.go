package cli

import (
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/tui/forms"
)

// Prompts are package variables so commands can be driven without a terminal
var (
	PromptSecret  = promptSecret
	PromptConfirm = promptConfirm
	PromptNewUser = promptNewUser
)

func promptSecret(title string) (string, error) {
	var v string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&v).
		Run()
	return v, err
}

func promptConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func promptNewUser() (models.NewUser, error) {
	var f forms.NewUser
	if err := forms.NewUserForm(&f).Run(); err != nil {
		return models.NewUser{}, err
	}
	return f.Fields()
}
