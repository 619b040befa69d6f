// Package interactive provides terminal user interface components
package interactive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// MenuOption represents a menu item with its associated action
type MenuOption struct {
	Name        string
	Description string
	Action      func() error
}

const exitChoice = "Exit"

var (
	// ErrExit is returned when the user chooses to exit
	ErrExit = errors.New("exit")
	// ErrInvalidSelection is returned when an invalid menu option is selected
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrCanceled is returned when a prompt is interrupted or left empty
	ErrCanceled = errors.New("selection canceled")
)

// MenuChoices returns the labels shown for options, followed by the exit entry.
func MenuChoices(options []MenuOption) []string {
	choices := make([]string, 0, len(options)+1)

	for _, opt := range options {
		choices = append(choices, choiceLabel(opt))
	}

	return append(choices, exitChoice)
}

func choiceLabel(opt MenuOption) string {
	return fmt.Sprintf("%s - %s", opt.Name, opt.Description)
}

// Dispatch runs the action for the selected label.
func Dispatch(options []MenuOption, selected string) error {
	if selected == exitChoice {
		return ErrExit
	}

	for _, opt := range options {
		if choiceLabel(opt) == selected {
			return opt.Action()
		}
	}

	return ErrInvalidSelection
}

// ShowMainMenu displays the main menu and handles user selection
func ShowMainMenu(options []MenuOption) error {
	var selected string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: MenuChoices(options),
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return ErrExit
	}

	return Dispatch(options, selected)
}

// SelectFromList asks the user to pick one of items
func SelectFromList(message string, items []string) (string, error) {
	var selected string
	prompt := &survey.Select{
		Message: message,
		Options: items,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", ErrCanceled
	}

	return selected, nil
}

// Input asks for free text, returning def when the answer is empty
func Input(message, def string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}

	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", ErrCanceled
	}

	return strings.TrimSpace(answer), nil
}

// InputFloat asks for a number, validating the answer before accepting it
func InputFloat(message string, def float64) (float64, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: strconv.FormatFloat(def, 'f', -1, 64),
	}

	err := survey.AskOne(prompt, &answer, survey.WithValidator(func(ans interface{}) error {
		_, parseErr := ParseFloat(fmt.Sprint(ans))
		return parseErr
	}))
	if err != nil {
		return 0, ErrCanceled
	}

	return ParseFloat(answer)
}

// ParseFloat parses a number, tolerating thousands separators
func ParseFloat(text string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}

	return v, nil
}

// PauseForEnter waits for the user to press Enter
func PauseForEnter() {
	fmt.Println("\nPress Enter to continue...")
	_, _ = fmt.Scanln()
}

// Confirm asks for user confirmation
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)
	return confirmed
}
