package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvresult"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	verbose bool

	dialectFile    string
	delimiter      string
	lineTerminator string
	contentType    string
	fileName       string
	noHeaders      bool
	spaceHeaders   bool
	quoteAll       bool
	quoteNeeded    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "csvexport",
		Short: "Convert YAML or JSON record lists into delimited text",
		Long: `csvexport reads a sequence of mappings (YAML or JSON) and writes it as
delimited text. The first record defines the columns; every later record
must carry the same keys.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.dialectFile, "dialect", "", "YAML dialect file")
	flags.StringVar(&opts.delimiter, "delimiter", ",", "value delimiter")
	flags.StringVar(&opts.lineTerminator, "line-terminator", "\r\n", "line terminator")
	flags.StringVar(&opts.contentType, "content-type", "application/octet-stream", "content type reported with the result")
	flags.StringVar(&opts.fileName, "file-name", "", "suggested download file name")
	flags.BoolVar(&opts.noHeaders, "no-headers", false, "omit the header line")
	flags.BoolVar(&opts.spaceHeaders, "space-headers", false, "split header names at capital letters")
	flags.BoolVar(&opts.quoteAll, "quote-all", false, "quote every value")
	flags.BoolVar(&opts.quoteNeeded, "quote-needed", false, "quote values containing the delimiter, quotes or newlines")

	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	return rootCmd
}

// dialect loads the dialect file, if any, then applies explicitly set flags.
func (o *rootOptions) dialect(cmd *cobra.Command) (*csvresult.Dialect, error) {
	d := csvresult.DefaultDialect()
	if o.dialectFile != "" {
		loaded, err := csvresult.LoadDialect(o.dialectFile)
		if err != nil {
			return nil, err
		}
		d = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		d.SetDelimiter(o.delimiter)
	}
	if flags.Changed("line-terminator") {
		d.SetLineTerminator(o.lineTerminator)
	}
	if flags.Changed("content-type") {
		if err := d.SetContentType(o.contentType); err != nil {
			return nil, err
		}
	}
	if flags.Changed("file-name") {
		d.SetFileDownloadName(o.fileName)
	}
	if flags.Changed("no-headers") {
		d.SetEmitHeaders(!o.noHeaders)
	}
	if flags.Changed("space-headers") {
		d.SetSpaceOutHeaderWords(o.spaceHeaders)
	}
	if flags.Changed("quote-all") {
		d.SetQuoteAllValues(o.quoteAll)
	}
	if flags.Changed("quote-needed") {
		d.SetQuoteWhenNeeded(o.quoteNeeded)
	}
	return d, nil
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
