// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// flagOrPrompt returns the value of flag [name], asking for it on the
// terminal when the flag was left empty. [validate] checks both.
func flagOrPrompt(cmd *cobra.Command, name, label string, validate func(string) error) (string, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if value != "" {
		return value, validate(value)
	}
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			return validate(strings.TrimSpace(input))
		},
	}
	value, err = promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
