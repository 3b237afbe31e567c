package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/adityasissodiya/campuspodcastlite/internal/formatter"
	"github.com/adityasissodiya/campuspodcastlite/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	palette *formatter.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is and the --config flag is ignored.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	Palette *formatter.Palette
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Palette == nil {
		opts.Palette = formatter.DefaultPalette
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: opts.Palette,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, libraryCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the configuration for a command: the injected config, else the file named by
// --config, else the embedded defaults. --addr and --storage override the result when set.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	var config *shared.Config
	if r.config != nil {
		copied := *r.config
		config = &copied
	} else {
		path := cmd.String("config")
		loaded, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.logger.Debug("loaded config", "path", path)
			config = loaded
		case errors.Is(err, fs.ErrNotExist) && !cmd.IsSet("config"):
			r.logger.Debug("config file not found, using defaults", "path", path)
			config = shared.DefaultConfig()
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		default:
			return nil, err
		}
	}

	if cmd.IsSet("addr") {
		host, port, err := splitAddr(cmd.String("addr"))
		if err != nil {
			return nil, err
		}
		config.Server.Host, config.Server.Port = host, port
	}
	if storagePath := cmd.String("storage"); storagePath != "" {
		config.Storage.Path = storagePath
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := shared.ApplyLogConfig(r.logger, config.Log); err != nil {
		return nil, err
	}
	return config, nil
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("%w: --addr %q: %v", shared.ErrInvalidFlag, addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("%w: --addr %q: bad port", shared.ErrInvalidFlag, addr)
	}
	return host, port, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
