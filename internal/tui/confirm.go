package tui

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question. Aborting the form counts as no.
func Confirm(title string) (bool, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}

	return confirmed, nil
}
