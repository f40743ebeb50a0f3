package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"golang.org/x/term"
	"gopkg.in/alecthomas/kingpin.v2"

	"flowcellcli/internal/config"
	"flowcellcli/internal/exporter"
	"flowcellcli/internal/files"
	"flowcellcli/internal/flowcalc"
	"flowcellcli/internal/infrastructure"
	"flowcellcli/internal/operations"
	"flowcellcli/internal/plotting"
	"flowcellcli/internal/prompt"
	"flowcellcli/internal/session"
	"flowcellcli/internal/validation"
	"flowcellcli/pkg/contracts"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type cli struct {
	app       *kingpin.Application
	validator *validation.FileValidator

	outputDir      *string
	configFile     *string
	nonInteractive *bool

	summaryFilesCmd  *kingpin.CmdClause
	summaryFiles     *[]string
	summaryFolderCmd *kingpin.CmdClause
	summaryFolder    *string

	plotCmd   *kingpin.CmdClause
	plotFiles *[]string

	boxplotCmd    *kingpin.CmdClause
	boxplotFolder *string
	heightDelta   *string
	labelsFile    *string
}

// errShown ends parsing after --help or --version printed their answer
var errShown = errors.New("shown")

func newCLI(stdout, stderr io.Writer) *cli {
	c := &cli{app: kingpin.New("flowcell", "Summaries, figures and boxplots of flow-cell experiments.")}
	c.app.Terminate(nil)
	c.app.UsageWriter(stderr)
	c.app.ErrorWriter(stderr)

	c.app.HelpFlag.PreAction(func(ctx *kingpin.ParseContext) error {
		if err := c.app.UsageForContext(ctx); err != nil {
			return err
		}
		return errShown
	})
	c.app.Flag("version", "Show application version.").PreAction(func(*kingpin.ParseContext) error {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return errShown
	}).Bool()

	c.outputDir = c.app.Flag("output", "Output folder for summaries and figures.").Short('o').Required().String()
	c.configFile = c.app.Flag("config", "YAML configuration file.").Short('c').String()
	c.nonInteractive = c.app.Flag("non-interactive", "Never ask; unanswered questions take their defaults.").Bool()

	summary := c.app.Command("summary", "Write a data summary workbook.")
	c.summaryFilesCmd = summary.Command("files", "Summarize raw data files.")
	c.summaryFiles = c.summaryFilesCmd.Arg("files", "Raw data files.").Required().ExistingFiles()
	c.summaryFolderCmd = summary.Command("folder", "Summarize every raw data file of a folder.")
	c.summaryFolder = c.summaryFolderCmd.Arg("folder", "Raw data folder.").Required().ExistingDir()

	c.plotCmd = c.app.Command("plot", "Draw flow and current figures of raw data files.")
	c.plotFiles = c.plotCmd.Arg("files", "Raw data files.").Required().ExistingFiles()

	c.boxplotCmd = c.app.Command("boxplot", "Draw boxplots of every raw data file of a folder.")
	c.boxplotFolder = c.boxplotCmd.Arg("folder", "Raw data folder.").Required().ExistingDir()
	c.heightDelta = c.boxplotCmd.Flag("height-delta", "Height delta in m (0, 0.1 or 0.2); skips the question.").String()
	c.labelsFile = c.boxplotCmd.Flag("labels", "YAML file mapping experiment names to labels.").ExistingFile()

	return c
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := newCLI(stdout, stderr)
	command, err := c.app.Parse(args)
	if errors.Is(err, errShown) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "flowcell: %v, try --help\n", err)
		return exitUsage
	}

	cfg, err := config.Load(*c.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "flowcell: %v\n", err)
		return exitFailed
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "flowcell: failed to initialize logger: %v\n", err)
		return exitFailed
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		providers = infrastructure.NoopProviders()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	c.validator = validation.NewFileValidator(logger)
	if err := c.validator.ValidateOutputDirectory(*c.outputDir); err != nil {
		fmt.Fprintf(stderr, "flowcell: %v\n", err)
		return exitFailed
	}

	svc, sess, err := wire(ctx, cfg, providers, logger, *c.outputDir)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to start", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "flowcell: %v\n", err)
		return exitFailed
	}

	result, err := c.dispatch(ctx, command, svc, sess, stdin, stdout, logger)
	if result != nil {
		printResult(stdout, result)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Command failed",
			slog.String("command", command),
			slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "flowcell: %v\n", err)
		return exitFailed
	}
	return exitOK
}

// wire builds the session and the service with its collaborators
func wire(ctx context.Context, cfg *config.Config, providers *infrastructure.OTelProviders, logger *slog.Logger, outputDir string) (*operations.Service, *session.Session, error) {
	resolver, err := files.NewResolver(cfg.Analysis, logger)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(infrastructure.GetTraceID(ctx), resolver, logger)
	if err := sess.SetOutputFolder(outputDir); err != nil {
		return nil, nil, err
	}
	layout, err := sess.Layout()
	if err != nil {
		return nil, nil, err
	}

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return nil, nil, err
	}

	manager := files.NewManager(layout, logger)
	calc := flowcalc.NewCalculator(cfg.Analysis, logger)
	svc, err := operations.NewService(operations.Dependencies{
		Calculator: calc,
		Samples:    calc,
		Writer:     exporter.NewWorkbookWriter(manager, logger),
		Renderer:   plotting.NewRenderer(cfg.Plot, manager, logger),
		Tracer:     tracer,
		Analysis:   cfg.Analysis,
		Plot:       cfg.Plot,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, sess, nil
}

func (c *cli) dispatch(ctx context.Context, command string, svc *operations.Service, sess *session.Session,
	stdin io.Reader, stdout io.Writer, logger *slog.Logger) (*operations.Result, error) {
	switch command {
	case c.summaryFilesCmd.FullCommand():
		if err := c.selectFiles(sess, *c.summaryFiles, stdout); err != nil {
			return nil, err
		}
		return svc.FileSummary(ctx, sess)

	case c.summaryFolderCmd.FullCommand():
		if err := c.selectFolder(sess, *c.summaryFolder, stdout); err != nil {
			return nil, err
		}
		return svc.FolderSummary(ctx, sess)

	case c.plotCmd.FullCommand():
		if err := c.selectFiles(sess, *c.plotFiles, stdout); err != nil {
			return nil, err
		}
		return svc.FilePlots(ctx, sess)

	case c.boxplotCmd.FullCommand():
		opts, err := c.boxplotOptions(stdin, stdout, logger)
		if err != nil {
			return nil, err
		}
		if err := c.selectFolder(sess, *c.boxplotFolder, stdout); err != nil {
			return nil, err
		}
		return svc.Boxplot(ctx, sess, opts)
	}
	return nil, fmt.Errorf("unknown command %q", command)
}

func (c *cli) selectFiles(sess *session.Session, paths []string, stdout io.Writer) error {
	for _, p := range paths {
		if err := c.validator.ValidateRawFile(p); err != nil {
			return err
		}
	}
	if err := sess.SelectFiles(paths); err != nil {
		return err
	}
	fmt.Fprintln(stdout, sess.DisplayText(config.DisplayWrapWidth))
	return nil
}

func (c *cli) selectFolder(sess *session.Session, dir string, stdout io.Writer) error {
	if _, err := c.validator.ValidateInputDirectory(dir); err != nil {
		return err
	}
	if err := sess.SelectFolder(dir); err != nil {
		return err
	}
	fmt.Fprintln(stdout, sess.DisplayText(config.DisplayWrapWidth))
	return nil
}

// boxplotOptions turns the boxplot flags into options. Questions go to the
// terminal unless --non-interactive is set or stdin is not a terminal.
func (c *cli) boxplotOptions(stdin io.Reader, stdout io.Writer, logger *slog.Logger) (operations.BoxplotOptions, error) {
	var opts operations.BoxplotOptions

	if *c.heightDelta != "" {
		v, err := strconv.ParseFloat(*c.heightDelta, 64)
		if err != nil {
			return opts, fmt.Errorf("--height-delta %q is not a number", *c.heightDelta)
		}
		opts.HeightDelta = &v
	}
	if *c.labelsFile != "" {
		labels, err := prompt.LoadLabels(*c.labelsFile)
		if err != nil {
			return opts, err
		}
		opts.Labels = labels
	}

	if *c.nonInteractive || !isTerminal(stdin) {
		opts.Prompter = prompt.Defaults{Logger: logger}
	} else {
		opts.Prompter = prompt.NewTerminal(stdin, stdout)
	}
	return opts, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
