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

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/liachmodded/procyon/gotoelim"
	"github.com/liachmodded/procyon/internal/fixture"
)

func newLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <dir>",
		Short: "Run the goto-elimination pass over every fixture in a directory.",
		Long: `lint walks dir for *.yaml fixtures, runs the goto-elimination pass on
each, and aggregates every fixture's failure into a single multi-error
report instead of stopping at the first one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return lintDir(c, args[0])
		},
	}
}

func lintDir(c *cobra.Command, dir string) error {
	var errs error
	checked := 0
	verbose, _ := c.Flags().GetBool("verbose")

	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		checked++
		if verbose {
			fmt.Fprintf(c.ErrOrStderr(), "linting %s\n", path)
		}
		if err := lintFixture(path); err != nil {
			errs = multierr.Append(errs, err)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("walking %s: %w", dir, walkErr)
	}

	fmt.Fprintf(c.OutOrStdout(), "checked %d fixtures\n", checked)
	return errs
}

func lintFixture(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	method, err := fixture.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	root, err := method.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := gotoelim.RemoveGotos(root); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
