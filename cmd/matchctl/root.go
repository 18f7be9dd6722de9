package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/resumematch/resumematch/internal/extract"
	"github.com/resumematch/resumematch/internal/fields"
	"github.com/resumematch/resumematch/internal/similarity"
	"github.com/resumematch/resumematch/pkg/logger"
)

const app = "matchctl"

// Actual version can be specified in build command.
var version = "unknown"

type options struct {
	debug bool
	json  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           app,
		Short:         "matchctl extracts résumé text and scores it against a job description",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logger.Init("debug")
			}
		},
	}
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "print results as JSON")

	root.AddCommand(newExtractCmd(opts), newParseCmd(opts), newScoreCmd(opts), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}

func newExtractCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the text segments of a pdf, docx or txt file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := extractFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, map[string]any{"file_name": filepath.Base(args[0]), "segments": segments})
			}
			for i, s := range segments {
				fmt.Fprintf(out, "[%d] %s\n", i+1, s)
			}
			return nil
		},
	}
}

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [FILE|-]",
		Short: "Parse years of experience and skills from a model answer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			if len(args) == 0 || args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			f := fields.Parse(string(b))
			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, map[string]string{
					"years_of_experience": f.YearsOfExperience,
					"technical_skills":    f.Skills,
					"extraction_status":   string(f.Status),
				})
			}
			fmt.Fprintf(out, "Years of Experience: %s\nSkills: %s\nStatus: %s\n", f.YearsOfExperience, f.Skills, f.Status)
			return nil
		},
	}
}

func newScoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "score RESUME JOB",
		Short: "Print the TF-IDF match percentage of two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resume, err := extractFile(args[0])
			if err != nil {
				return err
			}
			job, err := extractFile(args[1])
			if err != nil {
				return err
			}
			score, err := similarity.Score(extract.Join(resume), extract.Join(job))
			if err != nil {
				return fmt.Errorf("score: %w", err)
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, map[string]any{
					"resume_file":          filepath.Base(args[0]),
					"job_description_file": filepath.Base(args[1]),
					"match_percentage":     score,
				})
			}
			fmt.Fprintf(out, "%.2f\n", score)
			return nil
		},
	}
}

var errEmptyExtraction = errors.New("no text could be extracted")

func extractFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format, err := extract.FormatFromFilename(path)
	if err != nil {
		return nil, err
	}
	segments, err := extract.Extract(data, string(format))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(extract.Join(segments)) == "" {
		return nil, fmt.Errorf("%s: %w", path, errEmptyExtraction)
	}
	logger.Debugf("extracted %d segments from %s", len(segments), path)
	return segments, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
