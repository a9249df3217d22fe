// Package cli implements the oasgen command line: trace the component schemas
// of an OpenAPI document and render templates against it.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-oasgen"
	"github.com/goliatone/go-oasgen/internal/config"
	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
	"github.com/goliatone/go-oasgen/pkg/orchestrator"
)

// Option customises an App.
type Option func(*App)

// WithConfirmer replaces the survey prompt used before overwriting files.
func WithConfirmer(confirmer Confirmer) Option {
	return func(a *App) {
		a.confirmer = confirmer
	}
}

// WithInteractive overrides terminal detection for stdin.
func WithInteractive(fn func() bool) Option {
	return func(a *App) {
		a.interactive = fn
	}
}

// App carries the state shared by the commands of one invocation.
type App struct {
	stdout      io.Writer
	stderr      io.Writer
	viper       *viper.Viper
	confirmer   Confirmer
	interactive func() bool

	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
}

func newApp(stdout, stderr io.Writer, options ...Option) *App {
	a := &App{
		stdout:      stdout,
		stderr:      stderr,
		viper:       config.New(),
		confirmer:   surveyConfirmer{},
		interactive: stdinIsTerminal,
		cfg:         config.Default(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer, options ...Option) *cobra.Command {
	a := newApp(stdout, stderr, options...)

	root := &cobra.Command{
		Use:   "oasgen [source]",
		Short: "Trace OpenAPI component schemas and render templates against them",
		Long: `oasgen reads an OpenAPI 3 (or Swagger 2) document from a file or URL,
prints one trace line per component schema and renders a template against the
document. Templates can only read allow-listed fields.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runAll(cmd.Context(), args[0])
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./oasgen.yaml)")
	root.PersistentFlags().Bool("pretty", false, "human readable log output")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().Bool("validate", true, "validate the document and log findings as warnings")
	root.PersistentFlags().Bool("swagger2", true, "accept Swagger 2.0 documents")
	root.PersistentFlags().Bool("strict-refs", false, "fail when a local $ref names a missing schema")
	root.PersistentFlags().Duration("http-timeout", config.Default().HTTPTimeout, "timeout for remote documents")
	addRenderFlags(root)

	root.AddCommand(newTraceCommand(a))
	root.AddCommand(newRenderCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command line against the process streams.
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(context.Background())
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("template", "t", "", "template file to render")
	cmd.Flags().String("text", "", "inline template to render")
	cmd.Flags().StringP("output", "o", "", "write rendered output to a file instead of stdout")
	cmd.Flags().StringP("schema", "s", "", "render against a single component schema")
	cmd.Flags().BoolP("yes", "y", false, "overwrite the output file without asking")
}

func (a *App) setup(cmd *cobra.Command) error {
	if err := a.viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("cli: bind flags: %w", err)
	}
	cfg, err := config.Load(a.viper, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.Pretty, cfg.Verbose)
	return nil
}

func (a *App) orchestrator() *orchestrator.Orchestrator {
	return oasgen.NewOrchestrator(
		orchestrator.WithLoader(oasgen.NewLoader(
			pkgopenapi.WithHTTPFallback(a.cfg.HTTPTimeout),
		)),
		orchestrator.WithParser(oasgen.NewParser(
			pkgopenapi.WithValidation(a.cfg.Validate),
			pkgopenapi.WithSwagger2(a.cfg.Swagger2),
		)),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithStrictReferences(a.cfg.StrictRefs),
	)
}

// runAll prints the trace and then the rendered template, which is the
// default template unless one is configured.
func (a *App) runAll(ctx context.Context, location string) error {
	template, err := a.template()
	if err != nil {
		return err
	}
	result, err := a.generate(ctx, location, template)
	if result != nil {
		if traceErr := a.printTrace(result.Trace); traceErr != nil {
			return traceErr
		}
	}
	if err != nil {
		return err
	}
	return a.writeOutput(ctx, result.Output)
}

func (a *App) generate(ctx context.Context, location, template string) (*orchestrator.Result, error) {
	src, err := pkgopenapi.ParseSource(location)
	if err != nil {
		return nil, err
	}
	return a.orchestrator().Generate(ctx, orchestrator.Request{
		Source:   src,
		Template: template,
		Schema:   a.cfg.Schema,
	})
}

func (a *App) printTrace(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(a.stdout, line); err != nil {
			return fmt.Errorf("cli: write trace: %w", err)
		}
	}
	return nil
}

// template returns the configured template text. Files are read here; the
// pipeline itself only accepts template strings.
func (a *App) template() (string, error) {
	switch {
	case a.cfg.Template != "":
		data, err := os.ReadFile(a.cfg.Template)
		if err != nil {
			return "", fmt.Errorf("cli: read template: %w", err)
		}
		return string(data), nil
	case a.cfg.Text != "":
		return a.cfg.Text, nil
	default:
		return config.DefaultTemplate, nil
	}
}

func (a *App) writeOutput(ctx context.Context, output string) error {
	if a.cfg.Output == "" {
		if !strings.HasSuffix(output, "\n") {
			output += "\n"
		}
		if _, err := io.WriteString(a.stdout, output); err != nil {
			return fmt.Errorf("cli: write output: %w", err)
		}
		return nil
	}

	if err := a.confirmOverwrite(ctx, a.cfg.Output); err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.Output, []byte(output), 0o644); err != nil {
		return fmt.Errorf("cli: write output: %w", err)
	}
	a.logger.Info().Str("path", a.cfg.Output).Int("bytes", len(output)).Msg("output written")
	return nil
}
