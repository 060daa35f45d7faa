package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bridges/pkg/config"
	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/pipeline"
	"github.com/matzehuels/bridges/pkg/publish"
)

type visualizeOptions struct {
	assignment string
	user       string
	server     string
	publishers []string
	dryRun     bool
	noCache    bool
}

// visualizeCommand creates the visualize command.
func (c *CLI) visualizeCommand() *cobra.Command {
	var opts visualizeOptions

	cmd := &cobra.Command{
		Use:   "visualize [structure.json|structure.toml]",
		Short: "Build a data structure from a file and deliver it",
		Long: `Build a data structure from a file and deliver it.

The file describes an array or linked list (type: array, single, double,
circle-single, circle-double), its nodes and optional link styles. The
assembled document is delivered through the publishers named in the
configuration file or with --publisher.

Unchanged documents are not delivered twice; use --no-cache to force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.assignment, "assignment", "a", "", "assignment number (overrides the file)")
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "user name (overrides config and "+config.EnvUserName+")")
	cmd.Flags().StringVar(&opts.server, "server", "", "server: live, clone, local or a base URL")
	cmd.Flags().StringSliceVarP(&opts.publishers, "publisher", "p", nil, "publishers: server, file, nats, redis, mongo, s3")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the assembled document instead of delivering it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "deliver even if the document is unchanged")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, path string, opts visualizeOptions) error {
	logger := loggerFromContext(ctx)

	sf, container, err := loadContainer(path)
	if err != nil {
		return err
	}
	meta := sf.metadata()

	if opts.dryRun {
		doc, err := pipeline.Assemble(meta, container)
		if err != nil {
			return err
		}
		return c.printDocument(doc)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyVisualizeFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	assignment := opts.assignment
	if assignment == "" {
		assignment = sf.Assignment
	}
	if assignment == "" {
		return errs.New(errs.ErrCodeInvalidAssignment, "no assignment given (use --assignment or set it in %s)", path)
	}
	if cfg.UserName == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "no user name configured (set user_name, %s or --user)", config.EnvUserName)
	}

	p, cs, err := c.openPublisher(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer func() {
		if err := cs.Close(); err != nil {
			logger.Warn("closing publishers", "error", err)
		}
	}()

	runner := pipeline.NewRunner(p, logger)
	spinner := newSpinner(ctx, spinnerOutput(logger, c.stderr()), "Delivering "+container.Visual()+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Metadata:    meta,
		Container:   container,
		Destination: publish.Destination{Assignment: assignment, UserName: cfg.UserName},
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	c.printSuccess("Delivered %s to assignment %s", StyleHighlight.Render(container.Visual()), StyleValue.Render(assignment))
	c.printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.Receipt.Cached)
	for _, r := range receiptParts(result.Receipt) {
		if r.Location != "" {
			c.printLocation(r.Publisher, r.Location)
		}
	}
	return nil
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [structure.json|structure.toml]",
		Short: "Print the document a structure file assembles to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, container, err := loadContainer(args[0])
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			doc, err := pipeline.NewRunner(nil, logger).Assemble(cmd.Context(), sf.metadata(), container)
			if err != nil {
				return err
			}
			if err := c.printDocument(doc); err != nil {
				return err
			}
			prog.done("previewed "+container.Visual(), "file", args[0])
			return nil
		},
	}
}

func loadContainer(path string) (*structureFile, pipeline.Container, error) {
	sf, err := loadStructure(path)
	if err != nil {
		return nil, nil, err
	}
	container, err := sf.container()
	if err != nil {
		return nil, nil, err
	}
	return sf, container, nil
}

func applyVisualizeFlags(cfg *config.Config, opts visualizeOptions) {
	if opts.user != "" {
		cfg.UserName = opts.user
	}
	if opts.server != "" {
		if strings.HasPrefix(opts.server, "http://") || strings.HasPrefix(opts.server, "https://") {
			cfg.ServerURL = opts.server
		} else {
			cfg.Server = opts.server
			cfg.ServerURL = ""
		}
	}
	if len(opts.publishers) > 0 {
		cfg.Publishers = opts.publishers
	}
}

// receiptParts flattens a multi-publisher receipt.
func receiptParts(r publish.Receipt) []publish.Receipt {
	if len(r.Parts) == 0 {
		return []publish.Receipt{r}
	}
	return r.Parts
}

func (c *CLI) printDocument(doc document.Document) error {
	data, err := doc.MarshalIndent()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout(), string(data))
	return err
}
