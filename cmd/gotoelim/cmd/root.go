// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd wires the gotoelim command-line tool's subcommands using
// spf13/cobra, the way cuelang-cue/cmd/cue/cmd builds up its root command.
package cmd

import (
	"github.com/spf13/cobra"
)

// New builds the gotoelim root command with its run and lint subcommands
// attached.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:   "gotoelim",
		Short: "Apply the goto-elimination pass to method-body fixtures.",
		Long: `gotoelim loads a method body described in the fixture YAML format
(see internal/fixture) and runs the goto-elimination pass over it, either
printing the transformed tree for one file (run) or sweeping a directory and
reporting every fixture that fails to process (lint).`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "print progress to stderr")

	root.AddCommand(newRunCommand())
	root.AddCommand(newLintCommand())
	return root
}
