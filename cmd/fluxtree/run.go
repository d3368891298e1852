package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/fluxtree"
	"github.com/viant/fluxtree/model/state"
	"gopkg.in/yaml.v3"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <tree>",
		Short: "Run a process tree and print the final state",
		Long:  `Loads the tree, runs it with the config defaults overlaid by --param values and prints the final state as JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(cmd)
			if err != nil {
				return err
			}
			var options []fluxtree.Option
			if initial, _ := cmd.Flags().GetString("state"); initial != "" {
				var value interface{}
				if err = yaml.Unmarshal([]byte(initial), &value); err != nil {
					return fmt.Errorf("invalid --state: %w", err)
				}
				options = append(options, fluxtree.WithInitialState(value))
			}
			engine, err := newEngine(cmd, options...)
			if err != nil {
				return err
			}
			defer engine.Close()
			root, err := engine.LoadTree(cmd.Context(), treeURL(args[0]))
			if err != nil {
				return err
			}
			result, err := engine.Run(cmd.Context(), root, params)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
	cmd.Flags().StringArrayP("param", "p", nil, "Run parameter as key=value, values are parsed as YAML")
	cmd.Flags().String("state", "", "Initial state as YAML, overrides the config state")
	return cmd
}

func parseParams(cmd *cobra.Command) (state.Context, error) {
	pairs, _ := cmd.Flags().GetStringArray("param")
	if len(pairs) == 0 {
		return nil, nil
	}
	ret := make(state.Context, len(pairs))
	for _, pair := range pairs {
		key, text, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		var value interface{}
		if err := yaml.Unmarshal([]byte(text), &value); err != nil {
			return nil, fmt.Errorf("invalid --param %q: %w", pair, err)
		}
		ret[key] = value
	}
	return ret, nil
}
