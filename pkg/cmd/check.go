// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/monitor"
	"github.com/consensys/go-verimon/pkg/symbolic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd replays a recorded event trace against a temporal property,
// reporting every reachable violation.
var checkCmd = &cobra.Command{
	Use:   "check [flags] property_file trace_file",
	Short: "Replay an event trace against a temporal property.",
	Long: "Replay a recorded event trace (YAML) against a compiled temporal " +
		"property (YAML), reporting a counterexample trace for every " +
		"reachable violation.  Exits non-zero if any violation is found.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		config := monitor.Config{
			MaxDisjuncts: GetUint(cmd, "max-disjuncts"),
			MaxConjuncts: GetUint(cmd, "max-conjuncts"),
			TraceEnabled: GetFlag(cmd, "trace"),
		}
		//
		property, err := automaton.ParsePropertyFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		var (
			alloc  = symbolic.NewCounter(0)
			table  = newValueTable(alloc)
			source []byte
		)
		//
		if source, err = os.ReadFile(args[1]); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		events, err := parseTrace(source, table)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		sink := newConsoleSink(os.Stdout)
		replay(property, alloc, table, config, events, sink)
		//
		if sink.count > 0 {
			os.Exit(1)
		}
	},
}

// replay drives the monitor across every event of the trace, then filters
// against the (trivial) final path condition and reports reachable errors.
func replay(property *automaton.Machine, alloc symbolic.Allocator, table *valueTable,
	config monitor.Config, events []automaton.Event, sink *consoleSink) {
	//
	var (
		mon    = monitor.New(property, alloc, config)
		oracle = constraint.SyntacticOracle{}
		state  = mon.Initial()
		keep   = table.live()
	)
	//
	for _, ev := range events {
		state = mon.SmallStep(state, ev, keep, oracle, nil)
		log.Debugf("%s: %d disjuncts", ev, len(state))
	}
	//
	state = mon.FilterForSummary(state, oracle, nil)
	mon.ReportErrors(state, sink)
	mon.Flush()
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Uint("max-disjuncts", 20, "bound on the number of monitor disjuncts")
	checkCmd.Flags().Uint("max-conjuncts", 20, "bound on the predicates of any one disjunct")
	checkCmd.Flags().Bool("trace", false, "report transitions which never matched")
}
