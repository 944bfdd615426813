package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tracelink",
	Short: "Ticket-link annotation for changelog pipelines",
	Long: `tracelink links released changes back to the issue-tracker tickets that
motivated them. It detects a ticket identifier in each commit's pull-request
source branch (e.g. QUIKS-674-fix-login) and appends a markdown link to the
commit's changelog message.

Commit collections are exchanged with the host release pipeline as JSON.`,
	SilenceUsage: true,
}

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Append ticket links to a commit collection",
	Long: `Read a JSON commit collection, append a ticket link to every commit whose
pull-request branch carries one, and write the collection back out.

The pass is idempotent: commits that already mention their identifier are
left alone. Commits without pull-request data pass through untouched.

Examples:
  tracelink annotate --in commits.json --out annotated.json
  cat commits.json | tracelink annotate --style newline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		return runAnnotate(in, out, opts, dryRun)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the annotated changelog in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		title, _ := cmd.Flags().GetString("title")
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		return runPreview(in, title, opts)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect per-commit outcomes in a TUI",
	Long:  "Show what an annotation pass would do, one row per commit, without mutating anything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		return runReview(in, opts)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded annotation runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return runHistoryList(limit)
	},
}

var historyTicketCmd = &cobra.Command{
	Use:   "ticket <identifier>",
	Short: "Show every commit annotated with a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryTicket(args[0])
	},
}

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "GitHub pull request operations",
}

var prUpdateCmd = &cobra.Command{
	Use:   "update <commit-sha>",
	Short: "Append a ticket override block to the PR that introduced a commit",
	Long: `Find the merged pull request for a commit, detect the ticket in its source
branch, and append a BEGIN_COMMIT_OVERRIDE block to the PR body so downstream
changelog generators pick up the ticket link. PRs that already carry an
override block are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		return runPRUpdate(args[0], repo, opts)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{annotateCmd, previewCmd, reviewCmd, prUpdateCmd} {
		cmd.Flags().String("base-url", "", "Tracker base URL, no trailing slash (default from config)")
		cmd.Flags().String("pattern", "", "Ticket matching pattern with one capture group")
		cmd.Flags().String("style", "", "Link placement: inline or newline")
		cmd.Flags().BoolP("verbose", "v", false, "Log per-commit diagnostics")
	}

	for _, cmd := range []*cobra.Command{annotateCmd, previewCmd, reviewCmd} {
		cmd.Flags().StringP("in", "i", "-", "Input commits JSON file (- for stdin)")
	}
	annotateCmd.Flags().StringP("out", "o", "-", "Output file (- for stdout)")
	annotateCmd.Flags().Bool("dry-run", false, "Do not record the run in history")

	previewCmd.Flags().String("title", "Changelog", "Section title for the rendered markdown")

	historyListCmd.Flags().IntP("limit", "l", 20, "Maximum runs to show")
	historyCmd.AddCommand(historyListCmd, historyTicketCmd)

	prUpdateCmd.Flags().String("repo", "", "Repository (owner/repo or remote URL, default from config)")
	prCmd.AddCommand(prUpdateCmd)

	rootCmd.AddCommand(annotateCmd, previewCmd, reviewCmd, historyCmd, prCmd)
}
