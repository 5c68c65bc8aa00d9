// Command csvexport converts YAML or JSON record lists into delimited text.
//
//	csvexport convert people.yaml --delimiter ";" --output people.csv
//	csvexport serve people.yaml --addr :8080 --file-name people.csv
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oleg578/csvresult"
)

var version = "dev"

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes:
// 2 for configuration problems, 3 for records that cannot be encoded.
func exitCode(err error) int {
	switch {
	case errors.Is(err, csvresult.ErrInvalidConfiguration):
		return 2
	case errors.Is(err, csvresult.ErrMissingField), errors.Is(err, csvresult.ErrUnsupportedShape):
		return 3
	default:
		return 1
	}
}
