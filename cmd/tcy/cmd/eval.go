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

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tcy-lang/tcy"
	"github.com/tcy-lang/tcy/encoding/yaml"
	"github.com/tcy-lang/tcy/literal"
)

// newEvalCmd creates a new eval command.
func newEvalCmd() *cobra.Command {
	var tags []string
	var raw bool

	cmd := &cobra.Command{
		Use:   "eval <file> <path>",
		Short: "resolve a path in a YAML file and print the result",
		Long: `eval loads a YAML file, resolves the given path in it, and prints
the resulting value as YAML.

Arguments for $(...) expressions are injected with -t:

  $ tcy eval config.yaml my_message -t name_to_print=World
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := yaml.Extract(args[0], nil)
			if err != nil {
				return err
			}

			opts := []tcy.Option{tcy.Name(args[0])}
			if raw {
				opts = append(opts, tcy.RawResult())
			}
			for _, t := range tags {
				name, val, found := strings.Cut(t, "=")
				if !found {
					return fmt.Errorf("malformed -t flag %q, expected name=value", t)
				}
				opts = append(opts, tcy.Arg(name, literal.ParseScalar(val)))
			}

			v, err := tcy.Access(doc, args[1], opts...)
			if err != nil {
				return err
			}
			out, err := yaml.Encode(v)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			w.Write(out)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil,
		"set a named argument value, as name=value")
	cmd.Flags().BoolVar(&raw, "raw", false,
		"do not deeply expand the resulting value")
	return cmd
}
