package main

import (
	"github.com/spf13/cobra"

	"github.com/ashureev/scam-honeypot/internal/domain"
	"github.com/ashureev/scam-honeypot/internal/intel"
)

type extractResult struct {
	Messages     int                 `json:"messages"`
	Total        int                 `json:"total"`
	Intelligence domain.Intelligence `json:"intelligence"`
}

func newExtractCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file...]",
		Short: "Extract intelligence from a transcript, one message per line",
		Long: `extract treats every non-empty line as one message of a single transcript.
Lines from several files are concatenated in argument order; stdin is read when
no file is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var transcript []string
			if len(args) == 0 {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
				transcript = lines
			}
			for _, path := range args {
				lines, err := readFileLines(path)
				if err != nil {
					return err
				}
				transcript = append(transcript, lines...)
			}

			found := intel.Extract(transcript)
			return writeJSON(cmd.OutOrStdout(), opts.pretty, extractResult{
				Messages:     len(transcript),
				Total:        found.Total(),
				Intelligence: found,
			})
		},
	}
}
