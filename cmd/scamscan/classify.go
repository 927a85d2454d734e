package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashureev/scam-honeypot/internal/detector"
	"github.com/ashureev/scam-honeypot/internal/domain"
)

type classifyResult struct {
	Message string `json:"message"`
	domain.Classification
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [message...]",
		Short: "Classify a message, or each stdin line when no message is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				msg := strings.Join(args, " ")
				return writeJSON(out, opts.pretty, classifyResult{Message: msg, Classification: detector.Detect(msg)})
			}

			lines, err := readLines(cmd.InOrStdin())
			if err != nil {
				return err
			}
			for _, line := range lines {
				if err := writeJSON(out, opts.pretty, classifyResult{Message: line, Classification: detector.Detect(line)}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
