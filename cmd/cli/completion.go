// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"interactive-choice/internal/config"

	"github.com/spf13/cobra"
)

var hostNames = []string{config.HostAuto, config.HostTUI, config.HostWeb}

// hostCompletionFunc completes values of the --host flags.
func hostCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return hostNames, cobra.ShellCompDirectiveNoFileComp
}

// choiceCompletionFunc offers the --choice values already given as
// candidates for --recommended.
func choiceCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	choices, err := cmd.Flags().GetStringArray("choice")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return choices, cobra.ShellCompDirectiveNoFileComp
}
