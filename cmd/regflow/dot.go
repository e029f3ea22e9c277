/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudwego/regflow/debug"
)

func newDotCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dot <program.yaml>",
		Short: "Write the control-flow graph with per-block liveness in Graphviz format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, lv, err := analyze(opts, args[0])
			if err != nil {
				return err
			}
			return debug.WriteDOT(cmd.OutOrStdout(), g, lv)
		},
	}
}
