// Package forms holds the huh forms shared by the TUI and the CLI prompts
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/models"
)

// Avatars offered by the new user form
var Avatars = []string{"🌙", "⭐", "🏮", "🐪", "🌴", "🦁", "🐱", "🌸"}

// NewUser holds the raw strings the new user form edits
type NewUser struct {
	Name     string
	Age      string
	Avatar   string
	Role     models.Role
	Passcode string
}

// Fields converts the form into creation fields
func (f NewUser) Fields() (models.NewUser, error) {
	age := 0
	if s := strings.TrimSpace(f.Age); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return models.NewUser{}, fmt.Errorf("invalid age %q", f.Age)
		}
		age = n
	}
	n := models.NewUser{Name: f.Name, Age: age, Avatar: f.Avatar, Role: f.Role, Passcode: f.Passcode}
	return n, n.Validate()
}

func validateAge(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("age must be a positive number")
	}
	return nil
}

func validatePasscode(s string) error {
	if s != "" && utf8.RuneCountInString(s) != constants.PasscodeLen {
		return fmt.Errorf("passcode must be exactly %d characters", constants.PasscodeLen)
	}
	return nil
}

// NewUserForm builds the form that creates a child or parent profile
func NewUserForm(f *NewUser) *huh.Form {
	if f.Avatar == "" {
		f.Avatar = constants.DefaultAvatar
	}
	if f.Role == "" {
		f.Role = models.RoleUser
	}
	avatarOpts := make([]huh.Option[string], 0, len(Avatars))
	for _, a := range Avatars {
		avatarOpts = append(avatarOpts, huh.NewOption(a, a))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Age").
				Placeholder(strconv.Itoa(constants.DefaultAge)).
				Value(&f.Age).
				Validate(validateAge),
			huh.NewSelect[string]().
				Title("Avatar").
				Options(avatarOpts...).
				Value(&f.Avatar),
			huh.NewSelect[models.Role]().
				Title("Role").
				Options(
					huh.NewOption("Child", models.RoleUser),
					huh.NewOption("Parent / admin", models.RoleAdmin),
				).
				Value(&f.Role),
			huh.NewInput().
				Title("Passcode").
				Description(fmt.Sprintf("%d characters, leave empty for none", constants.PasscodeLen)).
				EchoMode(huh.EchoModePassword).
				Value(&f.Passcode).
				Validate(validatePasscode),
		),
	)
}

// SecretForm asks for a passcode or the admin secret
func SecretForm(title string, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(value),
		),
	)
}

// ConfirmForm asks a yes/no question
func ConfirmForm(title string, value *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	)
}

// DeedForm edits the good deed written for a day
func DeedForm(day int, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Good deed for day %d", day)).
				Placeholder("I helped...").
				CharLimit(280).
				Value(value),
		),
	)
}
