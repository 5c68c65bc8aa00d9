package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvresult"
)

func newConvertCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert records to delimited text",
		Long: `Convert reads records from file (or stdin when file is omitted or "-")
and writes the delimited text to --output (or stdout).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.ErrOrStderr())

			d, err := opts.dialect(cmd)
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			records, err := readRecordsFile(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			logger.Debug("records loaded", "path", path, "rows", len(records))

			res, err := csvresult.SerializeDialect(records, d)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if _, err := res.WriteTo(out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			logger.Info("converted",
				"rows", len(records),
				"bytes", res.Len(),
				"content_type", res.ContentType,
				"output", output,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
