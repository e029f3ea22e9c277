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
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	Format   string
	LogLevel string
	Schedule string
	logger   *logrus.Logger
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "regflow",
		Short:        "Register liveness for bytecode programs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	/* global flags */
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warning", "log level (trace|debug|info|warning|error)")
	cmd.PersistentFlags().StringVar(&opts.Schedule, "schedule", "", "fixpoint schedule (sweep|worklist|scc), defaults to $REGFLOW_SCHEDULE")

	/* sub-commands */
	cmd.AddCommand(newAnalyzeCommand(opts))
	cmd.AddCommand(newDotCommand(opts))
	return cmd
}

func (self *rootOptions) setup(cmd *cobra.Command) error {
	lv, err := logrus.ParseLevel(self.LogLevel)
	if err != nil {
		return err
	}

	/* check the output format */
	if !isValidFormat(self.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", self.Format, validFormats)
	}

	/* logs never go to stdout */
	self.logger = logrus.New()
	self.logger.SetLevel(lv)
	self.logger.SetOutput(cmd.ErrOrStderr())
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}
