package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/cildiff/pkg/cil"
	"github.com/odvcencio/cildiff/pkg/cilfile"
	"github.com/odvcencio/cildiff/pkg/compare"
	"github.com/odvcencio/cildiff/pkg/diff"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var jsonOut bool
	var pretty bool
	var configPath string

	cmd := &cobra.Command{
		Use:     "cildiff [flags] LEFT RIGHT",
		Short:   "Semantic diff for SELinux CIL policies",
		Version: version,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("json") {
				jsonOut = cfg.JSON
			}
			if !cmd.Flags().Changed("pretty") {
				pretty = cfg.Pretty
			}
			return run(cmd, args[0], args[1], jsonOut, pretty)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the diff tree as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cildiff/config.toml)")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

const version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cildiff "+version)
		},
	}
}

func run(cmd *cobra.Command, leftPath, rightPath string, jsonOut, pretty bool) error {
	if leftPath == cilfile.StdinPath && rightPath == cilfile.StdinPath {
		return fmt.Errorf("only one input may come from stdin")
	}
	left, err := loadPolicy(leftPath)
	if err != nil {
		return err
	}
	right, err := loadPolicy(rightPath)
	if err != nil {
		return err
	}

	tree := diff.NewTree(left, right)
	compare.Compare(left, right, tree)

	out := cmd.OutOrStdout()
	if jsonOut {
		return diff.WriteJSON(tree, out, pretty)
	}
	fmt.Fprintf(out, "; Left hash: %s\n", left.Full)
	fmt.Fprintf(out, "; Right hash: %s\n", right.Full)
	diff.Print(tree, out)
	return nil
}

func loadPolicy(path string) (*compare.Node, error) {
	data, name, err := cilfile.Read(path)
	if err != nil {
		return nil, err
	}
	ast, err := cil.Parse(data, name)
	if err != nil {
		return nil, err
	}
	return compare.NewNode(ast), nil
}
