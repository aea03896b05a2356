package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sistema/engine/internal/cpm"
	"github.com/sistema/engine/internal/planfile"
)

func analyzeCmd() *cobra.Command {
	var flagJSON bool
	var flagCriticalOnly bool

	cmd := &cobra.Command{
		Use:   "analyze <file.hcl>...",
		Short: "Compute the CPM schedule of one or more plan files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := planfile.Load(args...)
			if err != nil {
				return err
			}
			res, err := cpm.Compute(plan.Nodes())
			if err != nil {
				return fmt.Errorf("CPM analysis: %w", err)
			}
			if flagCriticalOnly {
				res = criticalOnly(res)
			}
			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			return printSchedule(cmd.OutOrStdout(), plan, res)
		},
	}

	cmd.Flags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	cmd.Flags().BoolVar(&flagCriticalOnly, "critical-only", false, "Only list tasks with zero slack")
	return cmd
}

func criticalOnly(res *cpm.Result) *cpm.Result {
	out := &cpm.Result{Entries: []cpm.Entry{}, CriticalPath: res.CriticalPath, ProjectDuration: res.ProjectDuration}
	for _, e := range res.Entries {
		if e.IsCritical {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printSchedule(w io.Writer, plan *planfile.Plan, res *cpm.Result) error {
	fmt.Fprintf(w, "Project duration: %d\n", res.ProjectDuration)
	names := make([]string, 0, len(res.CriticalPath))
	for _, id := range res.CriticalPath {
		names = append(names, plan.Name(id))
	}
	fmt.Fprintf(w, "Critical path:    %s\n\n", strings.Join(names, " -> "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tDUR\tES\tEF\tLS\tLF\tSLACK\t")
	for _, e := range res.Entries {
		mark := ""
		if e.IsCritical {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			e.ID, e.Duration, e.EarliestStart, e.EarliestFinish, e.LatestStart, e.LatestFinish, e.Slack, mark)
	}
	return tw.Flush()
}
