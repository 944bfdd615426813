package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/releasetrain/tracelink/internal/annotate"
	"github.com/releasetrain/tracelink/internal/changelog"
	"github.com/releasetrain/tracelink/internal/cli"
	"github.com/releasetrain/tracelink/internal/github"
	"github.com/releasetrain/tracelink/internal/pipeline"
	"github.com/releasetrain/tracelink/internal/store"
	"github.com/releasetrain/tracelink/internal/ticket"
	"github.com/releasetrain/tracelink/internal/tui/review"
)

// buildOptions merges command flags over the config file values. Flags that
// were not set on the command line fall through to the config, which falls
// through to the engine defaults.
func buildOptions(cmd *cobra.Command) (annotate.Options, error) {
	baseURL := cfg.Tracker.BaseURL
	pattern := cfg.Tracker.Pattern
	style := cfg.Tracker.Style
	verbose := cfg.Tracker.Verbose

	if cmd.Flags().Changed("base-url") {
		baseURL, _ = cmd.Flags().GetString("base-url")
	}
	if cmd.Flags().Changed("pattern") {
		pattern, _ = cmd.Flags().GetString("pattern")
	}
	if cmd.Flags().Changed("style") {
		style, _ = cmd.Flags().GetString("style")
	}
	if cmd.Flags().Changed("verbose") {
		verbose, _ = cmd.Flags().GetBool("verbose")
	}

	return annotate.NewOptions(baseURL, pattern, style, verbose)
}

func readCommits(path string) ([]*changelog.Commit, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return changelog.ReadCommits(r)
}

func writeCommits(path string, commits []*changelog.Commit) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return changelog.WriteCommits(w, commits)
}

func runAnnotate(in, out string, opts annotate.Options, dryRun bool) error {
	commits, err := readCommits(in)
	if err != nil {
		return err
	}

	outcomes := annotate.Inspect(commits, opts)
	annotated := pipeline.RunSafe(pipeline.NewAnnotateStep(opts), commits)

	if !dryRun && cfg.History.Database != "" {
		if err := recordRun(outcomes, opts, len(commits)); err != nil {
			// History is bookkeeping; a broken database must not block the
			// release output.
			fmt.Fprintf(os.Stderr, "%s failed to record history: %v\n", cli.Warn(cli.CrossMark), err)
		}
	}

	return writeCommits(out, annotated)
}

func recordRun(outcomes []annotate.Outcome, opts annotate.Options, commitCount int) error {
	st, err := store.New(cfg.History.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var annotations []*store.Annotation
	for _, o := range outcomes {
		if o.Skip != annotate.SkipNone {
			continue
		}
		annotations = append(annotations, &store.Annotation{
			CommitHash: o.Hash,
			Branch:     o.Branch,
			Ticket:     o.Ticket,
		})
	}

	run := &store.Run{
		ID:             uuid.NewString(),
		BaseURL:        opts.BaseURL,
		Style:          string(opts.Style),
		CommitCount:    commitCount,
		AnnotatedCount: len(annotations),
	}
	return st.RecordRun(run, annotations)
}

func runPreview(in, title string, opts annotate.Options) error {
	commits, err := readCommits(in)
	if err != nil {
		return err
	}

	annotated := pipeline.RunSafe(pipeline.NewAnnotateStep(opts), commits)
	md := changelog.RenderMarkdown(title, annotated)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(md) // fallback to raw
		return nil
	}
	rendered, err := r.Render(md)
	if err != nil {
		fmt.Print(md) // fallback to raw
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func runReview(in string, opts annotate.Options) error {
	commits, err := readCommits(in)
	if err != nil {
		return err
	}

	p := tea.NewProgram(review.New(commits, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runHistoryList(limit int) error {
	if cfg.History.Database == "" {
		return fmt.Errorf("history is disabled: no database configured")
	}

	st, err := store.New(cfg.History.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No annotation runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCOMMITS\tLINKED\tSTYLE\tDATE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			r.ID[:8], r.CommitCount, r.AnnotatedCount, r.Style, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runHistoryTicket(id string) error {
	if cfg.History.Database == "" {
		return fmt.Errorf("history is disabled: no database configured")
	}

	st, err := store.New(cfg.History.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	annotations, err := st.FindByTicket(id)
	if err != nil {
		return fmt.Errorf("find ticket %s: %w", id, err)
	}
	if len(annotations) == 0 {
		fmt.Printf("No annotations recorded for %s.\n", id)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMIT\tBRANCH\tRUN\tDATE")
	for _, a := range annotations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			a.CommitHash, a.Branch, a.RunID[:8], a.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runPRUpdate(sha, repo string, opts annotate.Options) error {
	ghCfg := cfg.GitHub
	if repo != "" {
		ghCfg.Repository = repo
	}
	if ghCfg.Token == "" {
		ghCfg.Token = os.Getenv("GITHUB_TOKEN")
	}

	client, err := github.NewClient(ghCfg)
	if err != nil {
		return err
	}

	pr, err := client.FindPRForCommit(sha)
	if err != nil {
		return err
	}
	if pr == nil {
		fmt.Printf("No merged PR found for commit %s.\n", sha)
		return nil
	}
	fmt.Printf("Found PR #%d: %s %s\n", pr.Number, pr.Title, cli.Dim("("+pr.HeadBranch()+")"))

	id, ok := opts.Rule.Extract(pr.HeadBranch())
	if !ok {
		fmt.Printf("Branch %q carries no ticket reference. Skipping.\n", pr.HeadBranch())
		return nil
	}

	if github.HasCommitOverride(pr.Body) {
		fmt.Printf("PR #%d already has a commit override. Skipping.\n", pr.Number)
		return nil
	}

	link := fmt.Sprintf("[%s](%s)", id, ticket.BrowseURL(id, opts.BaseURL))
	body := github.AppendOverride(pr.Body, github.CommitOverride(pr.Title, link))

	if err := client.UpdatePRBody(pr.Number, body); err != nil {
		return err
	}

	fmt.Printf("%s Updated PR #%d with ticket reference %s\n", cli.Success(cli.CheckMark), pr.Number, id)
	return nil
}
