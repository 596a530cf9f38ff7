package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	log "github.com/charmbracelet/log"
	client "github.com/mutablelogic/go-client"
	tooluse "github.com/mutablelogic/go-tooluse"
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	logger "github.com/mutablelogic/go-tooluse/pkg/logger"
	anthropic "github.com/mutablelogic/go-tooluse/pkg/provider/anthropic"
	openai "github.com/mutablelogic/go-tooluse/pkg/provider/openai"
	stub "github.com/mutablelogic/go-tooluse/pkg/provider/stub"
	retry "github.com/mutablelogic/go-tooluse/pkg/retry"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	version "github.com/mutablelogic/go-tooluse/pkg/version"
	otel "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output, including HTTP requests"`

	// Configuration
	ConfigPath    string        `name:"config" env:"TOOLUSE_CONFIG" help:"Path to a YAML configuration file" type:"path" optional:""`
	ProviderName  string        `name:"provider" short:"p" help:"Model provider (anthropic, openai or stub)" optional:""`
	Model         string        `name:"model" short:"m" help:"Model name" optional:""`
	MaxTokens     uint          `name:"max-tokens" help:"Maximum number of tokens to generate" optional:""`
	Temperature   *float64      `name:"temperature" help:"Sampling temperature between 0 and 1" optional:""`
	Attempts      uint          `name:"attempts" help:"Number of attempts for each request" optional:""`
	Timeout       time.Duration `name:"timeout" help:"Timeout for each attempt" optional:""`
	MaxIterations *uint         `name:"max-iterations" help:"Maximum number of requests for each message, 0 for no limit" optional:""`

	// Providers
	Anthropic `embed:"" help:"Anthropic configuration"`
	OpenAI    `embed:"" help:"OpenAI configuration"`

	// Context
	ctx      context.Context
	execName string
	config   Config
	tracer   trace.Tracer
	logger   *log.Logger
	observer *logger.Observer
}

type Anthropic struct {
	AnthropicKey string `name:"anthropic-key" env:"ANTHROPIC_API_KEY" help:"Anthropic API key"`
}

type OpenAI struct {
	OpenAIKey      string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIEndpoint string `name:"openai-endpoint" env:"OPENAI_BASE_URL" help:"Endpoint for an OpenAI-compatible API"`
}

type CLI struct {
	Globals
	ConversationCommands
	ToolCommands
	ModelCommands
	VersionCommands
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	tracerName  = "github.com/mutablelogic/go-tooluse/cmd/tooluse"
	description = "Tool-use conversations with hosted language models"
)

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description(description),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version": version.Version(),
		},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = execName()

	// Load the configuration
	cmd.FatalIfErrorf(cli.Globals.load())

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generator returns the selected provider, retried according to the config
func (g *Globals) Generator() (tooluse.Generator, error) {
	provider, err := g.Provider()
	if err != nil {
		return nil, err
	}
	return retry.New(provider,
		retry.WithAttempts(g.config.Attempts),
		retry.WithTimeout(g.config.Timeout),
		retry.WithNotify(g.observer.Retry),
	)
}

// Provider returns the provider named in the config. When none is named,
// the first provider with an API key is used, and the offline stub when
// there are no keys.
func (g *Globals) Provider() (tooluse.Provider, error) {
	name := g.config.Provider
	if name == "" {
		switch {
		case g.AnthropicKey != "":
			name = anthropic.Name
		case g.OpenAIKey != "":
			name = openai.Name
		default:
			name = stub.Name
		}
	}
	return g.newProvider(name)
}

// Providers returns every provider which has an API key, and the stub
func (g *Globals) Providers() ([]tooluse.Provider, error) {
	var result []tooluse.Provider
	for _, name := range []string{anthropic.Name, openai.Name, stub.Name} {
		if name == anthropic.Name && g.AnthropicKey == "" {
			continue
		}
		if name == openai.Name && g.OpenAIKey == "" {
			continue
		}
		provider, err := g.newProvider(name)
		if err != nil {
			return nil, err
		}
		result = append(result, provider)
	}
	return result, nil
}

// Agent returns an agent with the toolkit and system prompt. An empty
// system prompt is replaced by the one in the config.
func (g *Globals) Agent(toolkit *tool.Toolkit, system string, opts ...agent.Opt) (*agent.Agent, error) {
	generator, err := g.Generator()
	if err != nil {
		return nil, err
	}
	if system == "" {
		system = g.config.System
	}
	return agent.New(generator, toolkit, append([]agent.Opt{
		agent.WithSystemPrompt(system),
		agent.WithConfig(g.config.Generation),
		agent.WithMaxIterations(g.config.maxIterations()),
		agent.WithObserver(g.observer),
		agent.WithTracer(g.tracer),
	}, opts...)...)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// load merges flags over the config file over the defaults, and creates the
// logger and tracer
func (g *Globals) load() error {
	file, err := LoadConfig(g.ConfigPath)
	if err != nil {
		return err
	}
	flags := Config{
		Provider:      g.ProviderName,
		Attempts:      g.Attempts,
		Timeout:       g.Timeout,
		MaxIterations: g.MaxIterations,
	}
	flags.Generation.Model = g.Model
	flags.Generation.MaxOutputTokens = g.MaxTokens
	flags.Generation.Temperature = g.Temperature
	g.config = flags.Merge(file).Merge(defaults)
	if err := g.config.Validate(); err != nil {
		return err
	}

	g.logger = logger.New(os.Stderr, g.execName, g.Debug)
	if !g.Debug && !g.Verbose {
		g.logger.SetLevel(log.WarnLevel)
	}
	g.observer = logger.NewObserver(g.logger)
	g.tracer = otel.Tracer(tracerName)
	g.logger.Debug("config", "config", g.config)
	return nil
}

func (g *Globals) newProvider(name string) (tooluse.Provider, error) {
	switch name {
	case anthropic.Name:
		if g.AnthropicKey == "" {
			return nil, tooluse.ErrBadParameter.With("set ANTHROPIC_API_KEY or --anthropic-key")
		}
		return anthropic.New(g.AnthropicKey, g.clientOpts()...)
	case openai.Name:
		if g.OpenAIKey == "" {
			return nil, tooluse.ErrBadParameter.With("set OPENAI_API_KEY or --openai-key")
		}
		opts := []openai.Opt{openai.OptHTTPClient(&http.Client{Timeout: g.config.Timeout})}
		if g.OpenAIEndpoint != "" {
			opts = append(opts, openai.OptBaseURL(g.OpenAIEndpoint))
		}
		return openai.New(g.OpenAIKey, opts...)
	case stub.Name:
		return stub.NewResponder(stub.Offline()), nil
	default:
		return nil, tooluse.ErrNotFound.Withf("provider %q", name)
	}
}

func (g *Globals) clientOpts() []client.ClientOpt {
	result := []client.ClientOpt{}
	if g.Verbose {
		result = append(result, client.OptTrace(os.Stderr, g.Debug))
	}
	if g.tracer != nil {
		result = append(result, client.OptTracer(g.tracer))
	}
	if g.config.Timeout > 0 {
		result = append(result, client.OptTimeout(g.config.Timeout))
	}
	return result
}

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
