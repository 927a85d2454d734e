package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	pretty bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "scamscan",
		Short: "Classify scam messages and extract intelligence offline",
		Long: `scamscan applies the honeypot's keyword classifier and intelligence extractor
to text from arguments, files or stdin, printing JSON. It does not contact the
reply generator or the collector.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")

	cmd.AddCommand(newClassifyCmd(opts), newExtractCmd(opts))
	return cmd
}

func writeJSON(w io.Writer, pretty bool, v interface{}) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// readLines returns the non-empty lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

func readFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readLines(f)
}
