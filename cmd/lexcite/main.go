package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/config"
	"github.com/coolbeans/lexcite/pkg/engine"
	"github.com/coolbeans/lexcite/pkg/format"
	"github.com/coolbeans/lexcite/pkg/server"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lexcite",
		Short: "Legal citation engine",
		Long: `Lexcite finds legal citations in free text and normalizes them.

It recognizes case, statute, constitution, court rule, and secondary
authority citations and produces:
  - Canonical forms in Bluebook, ALWD, or Chicago style
  - Short forms (id., supra, short case) in document order
  - Validation findings with a confidence score
  - A table of authorities grouped by kind`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: lexcite.yaml in the current or a parent directory)")
	rootCmd.PersistentFlags().StringP("style", "s", "", "Citation style: bluebook, alwd, or chicago")
	rootCmd.PersistentFlags().Bool("json", false, "Emit JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(formatCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(toaCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tablesCmd())
	rootCmd.AddCommand(initCmd())

	return rootCmd
}

// setup loads the layered configuration and applies the persistent flags.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	configFile, _ := cmd.Flags().GetString("config")
	style, _ := cmd.Flags().GetString("style")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loader := config.NewLoader(logger)
	loader.ConfigFile = configFile
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if style != "" {
		if _, err := format.ParseStyle(style); err != nil {
			return nil, nil, err
		}
		cfg.Style = style
	}
	if !verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel()}))
	}
	return cfg, logger, nil
}

func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	return cfg.NewEngine(logger, nil)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "List the citations in a document",
		Long: `Extract recognizes every citation in a document and prints its canonical
form along with any validation findings. Reads stdin when no file is given.

Example:
  lexcite extract brief.txt
  lexcite extract --html opinion.html --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			citations := e.ExtractCitations(text)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), citations)
			}
			printCitations(cmd.OutOrStdout(), citations, false)
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func formatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Render citation components in a style",
		Long: `Format renders a citation from its components without parsing text.

Example:
  lexcite format --kind case --components '{"party_a":"Roe","party_b":"Wade","volume":"410","reporter_abbrev":"U.S.","first_page":"113","year":"1973"}'
  lexcite format --kind statute --style chicago --components '{"title":"42","code_abbrev":"U.S.C.","section":"1983"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kindName, _ := cmd.Flags().GetString("kind")
			raw, _ := cmd.Flags().GetString("components")
			asJSON, _ := cmd.Flags().GetBool("json")

			kind, err := citation.ParseKind(kindName)
			if err != nil {
				return err
			}
			if raw == "" {
				return fmt.Errorf("--components flag is required")
			}
			components, err := citation.DecodeComponents(kind, json.RawMessage(raw))
			if err != nil {
				return err
			}

			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			formatted := e.FormatCitation(components, e.Style())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"kind":      kind.String(),
					"style":     e.Style().String(),
					"citation":  formatted,
					"authority": citation.AuthorityKey(components),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatted)
			return nil
		},
	}
	cmd.Flags().StringP("kind", "k", "case", "Citation kind: case, statute, constitution, rule, or secondary")
	cmd.Flags().String("components", "", "Components as a JSON object")
	return cmd
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Show the short form each citation takes in document order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			resolved := e.ResolveShortForms(e.ExtractCitations(text))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resolved)
			}
			printCitations(cmd.OutOrStdout(), resolved, true)
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func toaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toa [file]",
		Short: "Build a table of authorities",
		Long: `Toa groups every authority cited in a document by kind and lists the
pages that cite it. Pages are separated by form feeds in the input.

Example:
  lexcite toa brief.txt
  lexcite toa brief.txt --style alwd --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			table := e.Process(engine.Document{Text: text}).Table
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), table)
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Text())
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Run the full pipeline and print citations, report, and table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			hintsPath, _ := cmd.Flags().GetString("hints")

			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			doc := engine.Document{Text: text}
			if hintsPath != "" {
				hints, err := readHints(hintsPath)
				if err != nil {
					return err
				}
				doc.Hints = hints
			}

			result := e.Process(doc)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			out := cmd.OutOrStdout()
			printCitations(out, result.Citations, true)
			fmt.Fprintln(out)
			fmt.Fprint(out, result.Report.String())
			fmt.Fprintln(out)
			fmt.Fprint(out, result.Table.Text())
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("hints", "", "JSON file of confirmed citations to reuse")
	return cmd
}

func readHints(path string) ([]*citation.Citation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hints: %w", err)
	}
	var hints []*citation.Citation
	if err := json.Unmarshal(data, &hints); err != nil {
		return nil, fmt.Errorf("failed to parse hints %s: %w", path, err)
	}
	return hints, nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Long: `Serve exposes extraction, formatting, short-form resolution, and the
table of authorities as JSON endpoints, with Prometheus metrics on /metrics.

Example:
  lexcite serve --addr :8080
  PORT=9000 lexcite serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			e, err := cfg.NewEngine(logger, reg)
			if err != nil {
				return err
			}
			defer e.Store().StopWatch()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return server.New(e, reg, logger).Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config and PORT)")
	return cmd
}

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables [reporters|courts|codes|rules|journals|constitutions]",
		Short: "Print the reference tables in use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			table := e.Table()

			type row struct{ abbrev, name string }
			sections := []struct {
				name string
				rows []row
				data any
			}{
				{"reporters", nil, table.Reporters()},
				{"courts", nil, table.Courts()},
				{"codes", nil, table.Codes()},
				{"rules", nil, table.RuleBodies()},
				{"journals", nil, table.Journals()},
				{"constitutions", nil, table.Constitutions()},
			}
			for _, r := range table.Reporters() {
				sections[0].rows = append(sections[0].rows, row{r.Abbrev, r.Name})
			}
			for _, c := range table.Courts() {
				sections[1].rows = append(sections[1].rows, row{c.Abbrev, c.Name})
			}
			for _, c := range table.Codes() {
				sections[2].rows = append(sections[2].rows, row{c.Abbrev, c.Name})
			}
			for _, r := range table.RuleBodies() {
				sections[3].rows = append(sections[3].rows, row{r.Abbrev, r.Name})
			}
			for _, j := range table.Journals() {
				sections[4].rows = append(sections[4].rows, row{j.Abbrev, j.Name})
			}
			for _, c := range table.Constitutions() {
				sections[5].rows = append(sections[5].rows, row{c.Abbrev, c.Name})
			}

			only := ""
			if len(args) > 0 {
				only = strings.ToLower(args[0])
				found := false
				for _, s := range sections {
					found = found || s.name == only
				}
				if !found {
					return fmt.Errorf("unknown table %q", args[0])
				}
			}

			if asJSON {
				out := make(map[string]any)
				for _, s := range sections {
					if only == "" || s.name == only {
						out[s.name] = s.data
					}
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			for _, s := range sections {
				if only != "" && s.name != only {
					continue
				}
				fmt.Fprintf(w, "%s (%d)\n", strings.ToUpper(s.name), len(s.rows))
				for _, r := range s.rows {
					fmt.Fprintf(w, "  %-20s %s\n", r.abbrev, r.name)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigFile
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.DefaultConfig().SaveToFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
			return nil
		},
	}
}

// printCitations writes one line per citation; resolved switches the shown
// form to the short form.
func printCitations(w io.Writer, citations []*citation.Citation, resolved bool) {
	if len(citations) == 0 {
		fmt.Fprintln(w, "No citations found.")
		return
	}
	for i, c := range citations {
		display := c.CanonicalForm
		if resolved {
			display = c.Display()
		}
		fmt.Fprintf(w, "%3d. [%s] p.%d  %s\n", i+1, c.Kind(), c.Page, display)
		if display != c.RawText {
			fmt.Fprintf(w, "       found: %q\n", c.RawText)
		}
		for _, issue := range c.Errors {
			fmt.Fprintf(w, "       error: %s: %s\n", issue.Code, issue.Message)
		}
		for _, issue := range c.Warnings {
			fmt.Fprintf(w, "       warning: %s: %s\n", issue.Code, issue.Message)
		}
	}
}

// signalContext cancels on interrupt or SIGTERM.
var signalContext = func(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
