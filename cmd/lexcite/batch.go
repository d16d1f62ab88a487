package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/coolbeans/lexcite/pkg/engine"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <pattern>...",
		Short: "Process many documents in parallel",
		Long: `Batch runs the full pipeline over every file matching the given glob
patterns. Patterns support ** for recursive matching.

Example:
  lexcite batch 'briefs/**/*.txt'
  lexcite batch 'opinions/*.html' --out results/ --workers 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")
			workers, _ := cmd.Flags().GetInt("workers")
			asHTML, _ := cmd.Flags().GetBool("html")
			asJSON, _ := cmd.Flags().GetBool("json")

			paths, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files match %s", strings.Join(args, ", "))
			}

			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			e, err := cfg.NewEngine(logger, nil)
			if err != nil {
				return err
			}

			docs := make([]engine.Document, len(paths))
			for i, path := range paths {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				text, err := readText(f, asHTML || isHTMLPath(path))
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				docs[i] = engine.Document{Text: text}
			}

			results, err := e.ProcessBatch(cmd.Context(), docs)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			summary := make(map[string]*engine.Result, len(paths))
			w := cmd.OutOrStdout()
			for i, path := range paths {
				result := results[i]
				summary[path] = result

				if outDir != "" {
					if err := writeResult(outputPath(outDir, path), result); err != nil {
						return err
					}
				}
				if !asJSON {
					fmt.Fprintf(w, "%-40s %4d citations  %4d authorities  %4d flagged\n",
						path, len(result.Citations), result.Table.Entries(), result.Report.Flagged)
				}
			}

			if asJSON {
				return writeJSON(w, summary)
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Directory for one JSON result per document")
	cmd.Flags().Int("workers", 0, "Documents processed in parallel (default: config, then one per CPU)")
	return cmd
}

// expandPatterns resolves glob patterns to a sorted, deduplicated list of
// regular files.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob error in %q: %w", pattern, err)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() || seen[match] {
				continue
			}
			seen[match] = true
			paths = append(paths, match)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// outputPath maps an input path to its result file, flattening directories so
// same-named inputs do not collide.
func outputPath(outDir, input string) string {
	name := filepath.ToSlash(filepath.Clean(input))
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, "../", "")
	name = strings.ReplaceAll(name, "/", "_")
	return filepath.Join(outDir, name+".json")
}

func writeResult(path string, result *engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := writeJSON(f, result); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
