package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/dedup"
)

func newDedupeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dedupe <file> <file> [file...]",
		Short: "Pick which copy of a duplicate group to keep",
		Long: "Given files already known to be duplicates of one another, select the copy to keep " +
			"as the original. Embedded tag metadata wins over file size, size wins over recency, and " +
			"the path order settles exact ties, so the same group always resolves the same way.",
		Args:        cobra.MinimumNArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				expanded, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				paths = append(paths, expanded)
			}

			group := dedup.Collect(paths)
			resolution, err := dedup.Resolve(group)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, resolution)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			headers := []string{"Decision", "Path", "Size", "Tags", "Score"}
			rows := [][]string{candidateRow("keep", resolution.Kept)}
			for _, candidate := range resolution.Relocate {
				rows = append(rows, candidateRow("relocate", candidate))
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))

			unreadable := 0
			for _, candidate := range group {
				if candidate.MetadataUnreadable {
					unreadable++
				}
			}
			if unreadable == len(group) {
				fmt.Fprintln(out, renderStatusLine("Warning", statusWarn, "no candidate was readable; keeping the first given", colorize))
			} else if unreadable > 0 {
				fmt.Fprintln(out, renderStatusLine("Warning", statusWarn, fmt.Sprintf("%d candidate(s) unreadable", unreadable), colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the resolution as JSON")
	return cmd
}

func candidateRow(decision string, candidate dedup.Candidate) []string {
	size := "-"
	tags := "-"
	score := "-"
	if !candidate.MetadataUnreadable {
		size = formatBytes(candidate.SizeBytes)
		tags = yesNo(candidate.HasRichMetadata)
		score = strconv.FormatFloat(candidate.QualityScore, 'f', 2, 64)
	} else {
		decision += " (unreadable)"
	}
	return []string{decision, candidate.Path, size, tags, score}
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
