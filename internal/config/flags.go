package config

// This file implements CLI flag parsing and help text.
// Flags are parsed into a side struct first; the .env and JSON file layers
// are applied next, and only flags the user actually passed are copied on top.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlags parses args (without the program name) into cfg, applying the
// env and file layers in between. On --help or --version it prints and exits.
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("batchupload", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(version) }

	var fv flagValues
	defineUploadFlags(fs, &fv)
	defineBehaviorFlags(fs, &fv)
	defineDisplayFlags(fs, &fv)
	defineUtilityFlags(fs, &fv)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printUsage(version)
			os.Exit(0)
		}
		return err
	}

	if fv.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if fv.showVersion {
		fmt.Fprintln(os.Stdout, "batchupload v"+version)
		os.Exit(0)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["env"] {
		cfg.EnvFile = fv.envFile
	}
	if err := LoadEnv(cfg, cfg.EnvFile); err != nil {
		return err
	}
	if set["config"] || set["C"] {
		cfg.ConfigFile = fv.configFile
	}
	if cfg.ConfigFile != "" {
		if err := LoadFile(cfg, cfg.ConfigFile); err != nil {
			return err
		}
	}

	applyFlagValues(cfg, &fv, set)
	return parsePositionalArgs(fs, cfg)
}

// flagValues holds raw flag values until the lower layers have been applied.
type flagValues struct {
	configFile  string
	envFile     string
	runLog      string
	targets     stringList
	user        string
	pass        string
	category    int
	description string
	delay       int
	deleteOK    bool
	keep        bool
	dryRun      bool
	check       bool
	verbose     bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineUploadFlags registers target, credential and metadata flags.
func defineUploadFlags(fs *flag.FlagSet, fv *flagValues) {
	fs.Var(&fv.targets, "target", "Upload target base URL (repeatable)")
	fs.Var(&fv.targets, "t", "Same as --target")
	fs.StringVar(&fv.user, "user", "", "Default upload user")
	fs.StringVar(&fv.pass, "pass", "", "Default upload password")
	fs.IntVar(&fv.category, "category", 0, "Default category id (0 = unset)")
	fs.StringVar(&fv.description, "description", "", "Description sent with every upload")
}

// defineBehaviorFlags registers config, delay, delete and dry-run flags.
func defineBehaviorFlags(fs *flag.FlagSet, fv *flagValues) {
	fs.StringVar(&fv.configFile, "config", "", "JSON config file")
	fs.StringVar(&fv.configFile, "C", "", "Same as --config")
	fs.StringVar(&fv.envFile, "env", ".env", "Env file with BATCHUPLOAD_* credentials")
	fs.IntVar(&fv.delay, "delay", 0, "Seconds to wait between uploads")
	fs.IntVar(&fv.delay, "D", 0, "Same as --delay")
	fs.BoolVar(&fv.deleteOK, "delete-on-success", false, "Delete source files after a successful upload")
	fs.BoolVar(&fv.keep, "keep", false, "Never delete source files (overrides config)")
	fs.BoolVar(&fv.dryRun, "dry-run", false, "Show the upload plan; no network, no log records")
	fs.BoolVar(&fv.dryRun, "d", false, "Same as --dry-run")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, fv *flagValues) {
	fs.BoolVar(&fv.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&fv.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&fv.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&fv.verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&fv.check, "check", false, "Check source dir and target reachability, then exit")
	fs.BoolVar(&fv.check, "c", false, "Same as --check")
	fs.StringVar(&fv.runLog, "log", "", "Structured run log path (default: upload_log.txt)")
	fs.StringVar(&fv.runLog, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, fv *flagValues) {
	fs.BoolVar(&fv.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&fv.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&fv.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&fv.showHelp, "h", false, "Same as --help")
}

// applyFlagValues copies explicitly passed flags into cfg.
func applyFlagValues(cfg *Config, fv *flagValues, set map[string]bool) {
	if set["target"] || set["t"] {
		cfg.Targets = cfg.Targets[:0:0]
		for _, u := range fv.targets {
			cfg.Targets = append(cfg.Targets, TargetConfig{URL: u})
		}
	}
	if set["user"] {
		cfg.User = fv.user
	}
	if set["pass"] {
		cfg.Pass = fv.pass
	}
	if set["category"] {
		cfg.CategoryID = fv.category
	}
	if set["description"] {
		cfg.Description = fv.description
	}
	if set["delay"] || set["D"] {
		cfg.UploadDelay = fv.delay
	}
	if set["delete-on-success"] {
		cfg.DeleteOnSuccess = fv.deleteOK
	}
	if fv.keep {
		cfg.DeleteOnSuccess = false
	}
	if fv.dryRun {
		cfg.DryRun = true
	}
	if fv.check {
		cfg.CheckOnly = true
	}
	if fv.verbose {
		cfg.Verbose = true
	}
	if set["log"] || set["l"] {
		cfg.RunLog = fv.runLog
	}
	if fv.noColor {
		cfg.ColorMode = ColorNever
	} else if fv.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets SourceDir from the optional positional arg.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		cfg.SourceDir = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("expected at most one source_dir, got %d args", len(args))
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "batchupload v" + version + " - sequential video uploader"},
		{"", ""},
		{"  batchupload [OPTIONS] [source_dir]", ""},
		{"  batchupload summary --log <file> [--offset N]", ""},
		{"", ""},
		{"Targets", ""},
		{"  -t, --target <url>", "Upload target base URL (repeatable)"},
		{"  --user <name>", "Default user (env " + EnvUser + ")"},
		{"  --pass <secret>", "Default password (env " + EnvPass + ")"},
		{"  --category <id>", "Default category id (0 = unset)"},
		{"  --description <text>", "Description sent with every upload"},
		{"", ""},
		{"Behavior", ""},
		{"  -C, --config <file>", "JSON config file"},
		{"  --env <file>", "Env file (default: .env)"},
		{"  -D, --delay <seconds>", "Pause between uploads (default: 0)"},
		{"  --delete-on-success", "Delete source files after upload"},
		{"  --keep", "Never delete source files"},
		{"  -d, --dry-run", "Show the plan only"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Run log (default: upload_log.txt)"},
		{"  -c, --check", "Check source dir and targets"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return fmt.Errorf("empty target URL")
	}
	*s = append(*s, v)
	return nil
}
