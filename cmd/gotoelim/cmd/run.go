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

	"github.com/spf13/cobra"

	"github.com/liachmodded/procyon/gotoelim"
	"github.com/liachmodded/procyon/internal/fixture"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <fixture.yaml>",
		Short: "Run the goto-elimination pass on one fixture and print the result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runFixture(c, args[0])
		},
	}
}

func runFixture(c *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	method, err := fixture.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	root, err := method.Build()
	if err != nil {
		return fmt.Errorf("building %s: %w", path, err)
	}

	if err := gotoelim.RemoveGotos(root); err != nil {
		return fmt.Errorf("removing gotos in %s: %w", path, err)
	}

	out, err := fixture.Dump(method.Name, root)
	if err != nil {
		return fmt.Errorf("dumping result for %s: %w", path, err)
	}
	c.OutOrStdout().Write(out)
	return nil
}
