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

// Command gotoelim runs the goto-elimination pass over fixture files from
// the command line: a single-file run for inspecting one transformation, or
// a directory-wide lint sweep for regression checking a corpus of fixtures.
package main

import (
	"os"

	"github.com/liachmodded/procyon/cmd/gotoelim/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
