// Package main is the richconf command line tool: it resolves an
// editor configuration and prints the widget init document.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/pretty"

	"github.com/dshills/richconf/internal/editorconf"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// options holds the parsed command line.
type options struct {
	hostDir      string
	workspaceDir string
	envPrefix    string
	scripts      []string
	compact      bool
	showLayers   bool
}

func run() int {
	opts := parseFlags()

	cfgOpts := []editorconf.Option{
		editorconf.WithEnvPrefix(opts.envPrefix),
		editorconf.WithWatcher(false),
	}
	if opts.hostDir != "" {
		cfgOpts = append(cfgOpts, editorconf.WithHostConfigDir(opts.hostDir))
	}
	if opts.workspaceDir != "" {
		cfgOpts = append(cfgOpts, editorconf.WithWorkspaceConfigDir(opts.workspaceDir))
	}

	cfg := editorconf.New(cfgOpts...)
	defer cfg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cfg.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}

	for _, path := range opts.scripts {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading plugin script: %v\n", err)
			return 1
		}
		name := pluginName(path)
		if err := cfg.Contributions().RegisterScript(ctx, name, string(source)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: plugin %s: %v\n", name, err)
			return 1
		}
	}

	if opts.showLayers {
		printLayers(cfg)
		return 0
	}

	doc, err := cfg.InitJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !opts.compact {
		doc = pretty.Pretty(doc)
	}
	os.Stdout.Write(doc)
	if opts.compact {
		fmt.Println()
	}

	return 0
}

// printLayers lists the overlay stack in fold order.
func printLayers(cfg *editorconf.Config) {
	for _, l := range cfg.Layers() {
		line := fmt.Sprintf("%-4d %-12s %s", l.Priority, l.Source, l.Name)
		if l.Path != "" {
			line += "  (" + l.Path + ")"
		}
		fmt.Println(line)
	}
}

// pluginName derives a plugin name from a script path:
// "plugins/wordcount.lua" registers as "wordcount".
func pluginName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func parseFlags() options {
	var opts options
	var scripts stringList
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.hostDir, "host", "", "Host application config directory")
	flag.StringVar(&opts.workspaceDir, "workspace", "", "Workspace config directory")
	flag.StringVar(&opts.workspaceDir, "w", "", "Workspace config directory (shorthand)")
	flag.StringVar(&opts.envPrefix, "env-prefix", editorconf.DefaultEnvPrefix, "Environment variable prefix")
	flag.Var(&scripts, "plugin", "Plugin contribution script (repeatable)")
	flag.Var(&scripts, "p", "Plugin contribution script (shorthand)")
	flag.BoolVar(&opts.compact, "compact", false, "Print compact JSON")
	flag.BoolVar(&opts.showLayers, "layers", false, "List overlay layers instead of resolving")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Richconf - rich-content editor configuration resolver\n\n")
		fmt.Fprintf(os.Stderr, "Usage: richconf [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  richconf                              Resolve the built-in baseline\n")
		fmt.Fprintf(os.Stderr, "  richconf -host /etc/app               Apply the host overlay\n")
		fmt.Fprintf(os.Stderr, "  richconf -w ./.app -p wordcount.lua   Workspace overlay plus a plugin\n")
		fmt.Fprintf(os.Stderr, "  richconf -layers                      Show the overlay stack\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Richconf %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.scripts = scripts
	return opts
}
