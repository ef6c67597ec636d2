package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/combatpics/internal/config"
	"github.com/example/combatpics/internal/notify"
	"github.com/example/combatpics/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	copyAlerts  bool
	verbose     bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// subcommand returns a child root sharing r's settings. A nil r yields
// defaults so that parse functions can be exercised on their own.
func (r *root) subcommand(name string) *root {
	if r == nil {
		return &root{program: "combatpics " + name, config: config.New(), activeTheme: theme.Default()}
	}
	child := *r
	child.fs = nil
	child.program = strings.TrimSpace(r.program + " " + name)
	if child.config == nil {
		child.config = config.New()
	}
	if child.activeTheme == nil {
		child.activeTheme = theme.Default()
	}
	return &child
}

// configFromArgs finds a -config flag ahead of the subcommand so that the
// file can supply defaults for the remaining flags.
func configFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return ""
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newRoot(args []string) *root {
	override := configPathOverride
	if p := configFromArgs(args); p != "" {
		override = p
	}
	loader := config.NewLoader(version, override)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("combatpics", flag.ExitOnError),
		program:  "combatpics",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.StringVar(&r.configPath, "config", override, "configuration file to read")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.verbose, "verbose", false, "log drawing backend diagnostics to stderr")
	// Precedence: CLI > Env > Config > Default, resolved in Run.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) loadTheme() *theme.Theme {
	name := r.config.ThemeName(r.themeName)
	loader := theme.NewLoader()
	loader.Custom = r.config.Themes
	t, err := loader.Load(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme %q: %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	if r.verbose {
		gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	r.activeTheme = r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "compose":
		cmd, err = parseComposeCmd(subArgs, r)
	case "open":
		cmd, err = parseOpenCmd(subArgs, r)
	case "sides":
		cmd, err = parseSidesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r.subcommand("version")}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	args := os.Args[1:]
	r := newRoot(args)
	if err := r.Run(args); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy("composite", img)
}
