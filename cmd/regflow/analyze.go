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
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudwego/regflow"
	"github.com/cloudwego/regflow/flowgraph"
	"github.com/cloudwego/regflow/internal/atm"
)

type instrReport struct {
	PC    int    `json:"pc"`
	Label string `json:"label,omitempty"`
	Instr string `json:"instr"`
	Live  []int  `json:"live"`
	Kills []int  `json:"kills"`
}

type report struct {
	Operands   int           `json:"operands"`
	AlwaysLive []int         `json:"always_live"`
	Blocks     int           `json:"blocks"`
	Schedule   string        `json:"schedule"`
	Sweeps     int           `json:"sweeps"`
	Visits     int           `json:"visits"`
	Code       []instrReport `json:"code"`
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <program.yaml>",
		Short: "Print the live operands and kills of every instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd.OutOrStdout())
		},
	}
}

func analyze(opts *rootOptions, path string) (*program, *flowgraph.Graph, *regflow.Liveness, error) {
	p, err := loadProgram(path)
	if err != nil {
		return nil, nil, nil, err
	}

	/* extract the basic blocks */
	g, err := atm.CreateGraphBuilder().Build(p.code)
	if err != nil {
		return nil, nil, nil, err
	}

	/* analysis options */
	options := []regflow.Option{
		regflow.WithOperandCount(p.operands),
		regflow.WithAlwaysLive(p.alwaysLive...),
		regflow.WithLogger(opts.logger),
	}

	/* select the schedule, if any */
	if opts.Schedule != "" {
		if s, ok := regflow.ParseSchedule(opts.Schedule); !ok {
			return nil, nil, nil, fmt.Errorf("invalid schedule %q", opts.Schedule)
		} else {
			options = append(options, regflow.WithSchedule(s))
		}
	}

	/* run the analysis */
	if lv, err := regflow.Analyze(g, p.code, options...); err != nil {
		return nil, nil, nil, err
	} else {
		return p, g, lv, nil
	}
}

func buildReport(p *program, lv *regflow.Liveness) (*report, error) {
	refs := p.code.Labels()
	full := lv.ComputeFullLiveness()
	kills := lv.ComputeKills()

	/* global properties */
	ret := &report{
		Operands:   lv.OperandCount(),
		AlwaysLive: lv.AlwaysLive().Indices(),
		Blocks:     lv.BlockCount(),
		Schedule:   lv.Schedule().String(),
		Sweeps:     lv.Sweeps(),
		Visits:     lv.Visits(),
		Code:       make([]instrReport, len(p.code)),
	}

	/* every instruction */
	for pc := range p.code {
		live, err := full.LiveAt(pc)
		if err != nil {
			return nil, err
		}
		k, err := kills.KilledAt(pc)
		if err != nil {
			return nil, err
		}
		ret.Code[pc] = instrReport{
			PC:    pc,
			Label: refs[pc],
			Instr: p.code.DisassembleWith(pc, refs),
			Live:  live.Indices(),
			Kills: k.Indices(),
		}
	}
	return ret, nil
}

func runAnalyze(opts *rootOptions, path string, w io.Writer) error {
	p, _, lv, err := analyze(opts, path)
	if err != nil {
		return err
	}

	/* collect the results */
	rp, err := buildReport(p, lv)
	if err != nil {
		return err
	}

	/* write in the requested format */
	if opts.Format == "json" {
		return writeJSON(w, rp)
	} else {
		return writeText(w, rp)
	}
}

func writeJSON(w io.Writer, rp *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rp)
}

func formatSet(v []int) string {
	return fmt.Sprint(v)
}

func writeText(w io.Writer, rp *report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "; operands=%d always_live=%v blocks=%d schedule=%s sweeps=%d visits=%d\n",
		rp.Operands, rp.AlwaysLive, rp.Blocks, rp.Schedule, rp.Sweeps, rp.Visits)

	/* one row per instruction */
	fmt.Fprintln(tw, "PC\tLABEL\tINSTRUCTION\tLIVE\tKILLS")
	for _, v := range rp.Code {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.PC, v.Label, v.Instr, formatSet(v.Live), formatSet(v.Kills))
	}
	return tw.Flush()
}
