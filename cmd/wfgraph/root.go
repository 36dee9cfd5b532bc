package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aristath/wfgraph/internal/backend"
	"github.com/aristath/wfgraph/internal/config"
	"github.com/aristath/wfgraph/internal/diagram"
	"github.com/aristath/wfgraph/internal/graph"
	"github.com/aristath/wfgraph/internal/process"
	"github.com/aristath/wfgraph/internal/status"
	"github.com/aristath/wfgraph/internal/ui"
	"github.com/aristath/wfgraph/internal/workflow"
)

// annotationCreatesConfig marks commands that may run before the config file exists.
const annotationCreatesConfig = "creates-config"

// app holds flag values and the state shared by every command.
type app struct {
	pm     *process.Manager
	cfg    *config.Config
	logger *log.Logger

	configPath   string
	workflowPath string
	output       string
	withStatus   bool
	view         bool
	keepSource   bool
	strict       bool
	verbose      bool
}

func newRootCmd(pm *process.Manager) *cobra.Command {
	a := &app{pm: pm}

	cmd := &cobra.Command{
		Use:   "wfgraph",
		Short: "Draw the dependency graph of a workflow",
		Long: `Draw the dependency graph of a workflow.

Tasks are read from a TOML or JSON workflow file, or from the task tables of a
scheduler database (.db, .sqlite). The diagram format is taken from the output
file extension; run "wfgraph formats" to list them.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Reject the destination before any loading or layout work
			_, err := diagram.FormatOf(a.output)
			return err
		},
		RunE: a.render,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.workflowPath, "workflow", "w", "", "workflow file or scheduler database (default from config: workflow.toml)")
	pf.StringVar(&a.configPath, "config", "", "project config file (default .wfgraph/config.json)")
	pf.BoolVar(&a.strict, "strict", false, "reject dependencies on undeclared tasks")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	f := cmd.Flags()
	f.StringVarP(&a.output, "output", "o", "", "diagram file to write (default from config: workflow.png)")
	f.BoolVar(&a.withStatus, "status", false, "color tasks by their current status")
	f.Var(&negatedBool{target: &a.withStatus}, "no-status", "do not color tasks by status")
	f.Lookup("no-status").NoOptDefVal = "true"
	f.BoolVar(&a.view, "view", false, "open the diagram after writing it")
	f.BoolVar(&a.keepSource, "keep-source", false, "also write the DOT source next to the diagram")

	cmd.AddCommand(newOrderCmd(a), newFormatsCmd(), newConfigCmd(a))

	return cmd
}

// setup loads configuration and fills in flags the user left unset.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.logger = log.New(cmd.ErrOrStderr(), "", 0)
	if a.verbose {
		a.logger.SetFlags(log.Ltime)
	}

	globalPath, projectPath, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	if a.configPath != "" {
		// An explicit config must exist, unless the command is about to create it
		if _, err := os.Stat(a.configPath); err != nil && cmd.Annotations[annotationCreatesConfig] == "" {
			return fmt.Errorf("loading project config: %w", err)
		}
		projectPath = a.configPath
	}

	cfg, err := config.Load(globalPath, projectPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if !flagChanged(cmd, "workflow") {
		a.workflowPath = cfg.Workflow
	}
	if !flagChanged(cmd, "output") {
		a.output = cfg.Output
	}
	if !flagChanged(cmd, "keep-source") {
		a.keepSource = cfg.KeepSource
	}

	return nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func (a *app) debugf(format string, args ...any) {
	if a.verbose {
		a.logger.Printf(format, args...)
	}
}

// loadGraph reads the workflow and builds its dependency graph.
func (a *app) loadGraph(ctx context.Context) (*graph.Graph, error) {
	tasks, err := workflow.Open(ctx, a.workflowPath)
	if err != nil {
		return nil, err
	}
	a.debugf("loaded %d tasks from %s", len(tasks), a.workflowPath)

	opts := []graph.Option{graph.WithCycleCheck()}
	if a.strict {
		opts = append(opts, graph.WithStrictDependencies())
	}
	return graph.Build(tasks, opts...)
}

func (a *app) render(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	g, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}

	var overlay status.Overlay
	if a.withStatus {
		overlay, err = a.fetchStatuses(ctx, g)
		if err != nil {
			return fmt.Errorf("fetching statuses: %w", err)
		}
	}

	opts := diagram.Options{
		Engine: &diagram.DotEngine{
			Command: a.cfg.Layout.Command,
			Args:    a.cfg.Layout.Args,
			Manager: a.pm,
		},
		KeepSource: a.keepSource,
		RankDir:    a.cfg.Layout.RankDir,
		Logger:     a.logger,
	}
	if a.view {
		opts.Viewer = &diagram.Viewer{Command: a.cfg.Viewer.Command, Args: a.cfg.Viewer.Args}
	}

	result, err := diagram.NewRenderer(opts).Render(ctx, g, overlay, a.output)
	if err != nil {
		return err
	}
	a.debugf("wrote %s", result.Path)

	fmt.Fprintln(cmd.OutOrStdout(), ui.Summary(result, overlay))
	return nil
}

// fetchStatuses asks the configured backend for the status of every node.
// Tasks the backend does not report are recorded as unknown, so the diagram
// is annotated even when nothing has run yet.
func (a *app) fetchStatuses(ctx context.Context, g *graph.Graph) (status.Overlay, error) {
	cfg := a.cfg.Backend
	if cfg.Type == "" {
		return nil, errors.New("no status backend configured (set backend.type)")
	}

	be, err := backend.New(ctx, cfg, a.pm)
	if err != nil {
		return nil, err
	}
	registry := backend.NewCircuitBreakerRegistry(a.logger)
	resilient := backend.NewResilient(be, registry.Get(cfg.Type), backend.DefaultRetryConfig())
	defer resilient.Close()

	names := make([]string, 0, g.Len())
	for _, n := range g.Nodes() {
		names = append(names, n.Name)
	}

	reported, err := resilient.Statuses(ctx, names)
	if err != nil {
		return nil, err
	}
	a.debugf("%s backend reported %d of %d tasks", cfg.Type, len(reported), len(names))

	overlay := make(status.Overlay, len(names))
	for _, name := range names {
		overlay[name] = reported.Lookup(name)
	}
	return overlay, nil
}

// writeLines prints one item per line.
func writeLines(w io.Writer, items []string) error {
	for _, item := range items {
		if _, err := fmt.Fprintln(w, item); err != nil {
			return err
		}
	}
	return nil
}

// negatedBool is the --no- form of a boolean flag. It writes the inverse into
// the same variable, so whichever of the pair comes last wins.
type negatedBool struct {
	target *bool
}

var _ pflag.Value = (*negatedBool)(nil)

func (b *negatedBool) Set(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*b.target = !v
	return nil
}

func (b *negatedBool) String() string {
	if b.target == nil {
		return "false"
	}
	return strconv.FormatBool(!*b.target)
}

func (b *negatedBool) Type() string { return "bool" }
