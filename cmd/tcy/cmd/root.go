// Copyright 2025 The TCY Authors
//
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

// Package cmd implements the tcy command line tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tcy-lang/tcy/errors"
)

// New creates the top-level command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tcy",
		Short: "tcy queries templated YAML configuration files",

		// Errors are printed in Main.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(newEvalCmd())
	return cmd
}

// Main runs the tool and returns the process exit code.
func Main() int {
	cmd := New()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Details(err))
		return 1
	}
	return 0
}
