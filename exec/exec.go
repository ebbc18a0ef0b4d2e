package exec

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	ErrUnknownEngine = errors.New("unknown engine")
	ErrUnknownKind   = errors.New("unknown query kind")
	ErrUnknownFormat = errors.New("unknown output format")
	ErrNoQuery       = errors.New("no query given")
)

type Params struct {
	GraphFilename   string
	Regex           string
	GrammarFilename string
	EBNFFilename    string
	Symbol          string
	RPQEngine       string
	CFPQEngine      string
	StartNodes      []string
	FinalNodes      []string
	MaxRounds       int
	Output          string
	LogLevel        string
	LogFormat       string
	Stdin           io.Reader
	Stdout          io.Writer
	Stderr          io.Writer

	log *logrus.Entry
}

func NewParams() *Params {
	return &Params{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Execute runs the command line args with the process's standard streams.
func Execute(name string, args ...string) error {
	return ExecuteWithParams(NewParams(), name, args...)
}

func ExecuteWithParams(p *Params, name string, args ...string) error {
	cmd := NewCommand(name, p)
	cmd.SetArgs(args)
	cmd.SetIn(p.Stdin)
	cmd.SetOut(p.Stdout)
	cmd.SetErr(p.Stderr)
	return cmd.ExecuteContext(context.Background())
}

// NewCommand builds the command tree. Flags are bound to p.
func NewCommand(name string, p *Params) *cobra.Command {
	root := &cobra.Command{
		Use:           name,
		Short:         "Regular and context-free path queries over edge-labeled graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return p.setupLogger()
		},
	}
	root.PersistentFlags().StringVar(&p.Output, "output", "text", "output format: text or yaml")
	root.PersistentFlags().StringVar(&p.LogLevel, "log-level", "info", "log level")
	root.PersistentFlags().StringVar(&p.LogFormat, "log-format", "text", "log format: text or json")
	root.PersistentFlags().IntVar(&p.MaxRounds, "max-rounds", 0, "fixpoint round limit, 0 for none")

	root.AddCommand(
		p.rpqCommand(),
		p.cfpqCommand(),
		p.runCommand(),
		p.infoCommand(),
		p.genCommand(),
		p.dotCommand(),
	)
	return root
}

func (p *Params) setupLogger() error {
	logger := logrus.New()
	logger.SetOutput(p.Stderr)
	level, err := logrus.ParseLevel(p.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	logger.SetLevel(level)
	switch strings.ToLower(p.LogFormat) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Wrapf(ErrUnknownFormat, "log format %q", p.LogFormat)
	}
	p.log = logger.WithField("run_id", uuid.NewString())
	return nil
}

// logger returns the run logger, falling back to the standard logger when
// Params is used without a command.
func (p *Params) logger() *logrus.Entry {
	if p.log == nil {
		p.log = logrus.NewEntry(logrus.StandardLogger())
	}
	return p.log
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read")
	}
	return string(b), nil
}
