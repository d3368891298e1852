package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/viant/fluxtree"
	"github.com/viant/fluxtree/service/dao"
	"github.com/viant/fluxtree/service/dao/criteria"
)

var errNoHistory = errors.New("run history is disabled, set runs.url or runs.redis in the config")

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history",
	}
	list := &cobra.Command{
		Use:   "ls",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := historyEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()
			var parameters []*dao.Parameter
			if status, _ := cmd.Flags().GetStringSlice("status"); len(status) > 0 {
				parameters = append(parameters, dao.NewParameter(criteria.StatusParameter, status...))
			}
			records, err := engine.Runs().List(cmd.Context(), parameters...)
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tTREE\tSTATUS\tSTARTED\tDURATION")
			for _, record := range records {
				fmt.Fprintf(writer, "%v\t%v\t%v\t%v\t%v\n", record.ID, record.Tree, record.Status, record.StartedAt.Format("2006-01-02T15:04:05"), record.Duration())
			}
			return writer.Flush()
		},
	}
	list.Flags().StringSlice("status", nil, "Filter by status")

	inspect := &cobra.Command{
		Use:   "inspect <id>",
		Short: "Print a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := historyEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()
			record, err := engine.Runs().Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(record)
		},
	}

	remove := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Remove stored runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := historyEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()
			for _, id := range args {
				if err = engine.Runs().Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.AddCommand(list, inspect, remove)
	return cmd
}

func historyEngine(cmd *cobra.Command) (*fluxtree.Engine, error) {
	engine, err := newEngine(cmd)
	if err != nil {
		return nil, err
	}
	if engine.Runs() == nil {
		engine.Close()
		return nil, errNoHistory
	}
	return engine, nil
}
