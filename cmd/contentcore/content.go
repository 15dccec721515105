package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"contentcore/pkg/domain"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportResult surfaces non-blocking violations and the cache paths the
// write made stale.
func (a *app) reportResult(res domain.Result) {
	for _, v := range res.Violations {
		a.logger.Warnw("rule violation", "rule", v.Rule, "severity", v.Severity, "entity", v.Entity, "entity_id", v.EntityID, "message", v.Message)
	}
	if paths := a.tracker.Paths(); len(paths) > 0 {
		a.logger.Debugw("cache invalidated", "paths", paths)
	}
}

func readRecordFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "Print a collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := collectionFor(a.svc, args[0])
			if err != nil {
				return err
			}
			records, err := col.list(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection> <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := collectionFor(a.svc, args[0])
			if err != nil {
				return err
			}
			record, ok := col.get(cmd.Context(), args[1])
			if !ok {
				return fmt.Errorf("%s %q not found", args[0], args[1])
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "add <collection>",
		Short: "Validate and store a new record from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := collectionFor(a.svc, args[0])
			if err != nil {
				return err
			}
			data, err := readRecordFile(file)
			if err != nil {
				return err
			}
			record, res, err := col.add(cmd.Context(), data)
			if err != nil {
				return err
			}
			a.reportResult(res)
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON record file ('-' for stdin)")
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Merge a JSON patch over a stored record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := collectionFor(a.svc, args[0])
			if err != nil {
				return err
			}
			data, err := readRecordFile(file)
			if err != nil {
				return err
			}
			record, res, err := col.update(cmd.Context(), args[1], data)
			if err != nil {
				return err
			}
			a.reportResult(res)
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON patch file ('-' for stdin)")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := collectionFor(a.svc, args[0])
			if err != nil {
				return err
			}
			res, err := col.remove(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			a.reportResult(res)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", args[0], args[1])
			return nil
		},
	}
}
