package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gitmon/internal/app"
	"github.com/zjrosen/gitmon/internal/cachemanager"
	"github.com/zjrosen/gitmon/internal/config"
	"github.com/zjrosen/gitmon/internal/event"
	"github.com/zjrosen/gitmon/internal/git"
	"github.com/zjrosen/gitmon/internal/input"
	"github.com/zjrosen/gitmon/internal/log"
	"github.com/zjrosen/gitmon/internal/pager"
	"github.com/zjrosen/gitmon/internal/terminal"
	"github.com/zjrosen/gitmon/internal/ui"
	"github.com/zjrosen/gitmon/internal/watcher"
)

func init() {
	// Query the background color before raw mode so the OSC 11 reply never
	// lands in the input stream.
	_ = lipgloss.HasDarkBackground()
}

const defaultLogPath = "gitmon-debug.log"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "gitmon [repo]",
	Short: "A live terminal dashboard for git diffs",
	Long: `gitmon shows the unstaged and staged diff of a git repository and
refreshes it whenever the working tree or the index changes.

Keys: j/k scroll, ]/[ jump between files, tab toggles staged/unstaged,
space folds a file, / searches, d opens the view in your pager, l lists
recent commits, q quits. Press ? for backward search.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .gitmon/config.yaml, then ~/.config/gitmon/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log (also enabled by GITMON_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"debug log path (default: "+defaultLogPath+")")
	rootCmd.Flags().Int("debounce-ms", config.Defaults().DebounceMs,
		"milliseconds to wait before refreshing after a change")
	rootCmd.Flags().String("pager", "",
		"pager command (default: GIT_PAGER, core.pager, PAGER, then less)")

	// Bind flags to viper
	_ = viper.BindPFlag("debounce_ms", rootCmd.Flags().Lookup("debounce-ms"))
	_ = viper.BindPFlag("pager", rootCmd.Flags().Lookup("pager"))
}

// repo is a resolved repository.
type repo struct {
	root     string
	gitDir   string
	executor *git.RealExecutor
}

// resolveRepo turns the positional argument into a repository root and git
// directory. Anything that is not inside a work tree is an error.
func resolveRepo(arg string) (repo, error) {
	if arg == "" {
		arg = "."
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return repo{}, fmt.Errorf("resolving %s: %w", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return repo{}, fmt.Errorf("opening repository: %w", err)
	}
	if !info.IsDir() {
		return repo{}, fmt.Errorf("%s is not a directory", arg)
	}

	root, err := git.NewRealExecutor(abs).GetRepoRoot()
	if err != nil {
		return repo{}, fmt.Errorf("%s: %w", arg, err)
	}
	executor := git.NewRealExecutor(root)
	gitDir, err := executor.GetGitDir()
	if err != nil {
		return repo{}, fmt.Errorf("%s: %w", arg, err)
	}
	return repo{root: root, gitDir: gitDir, executor: executor}, nil
}

// initLogging opens the debug log when --debug or GITMON_DEBUG asks for it.
func initLogging() (func(), error) {
	if !debugFlag && os.Getenv("GITMON_DEBUG") == "" {
		return func() {}, nil
	}
	path := logFile
	if path == "" {
		path = os.Getenv("GITMON_LOG")
	}
	if path == "" {
		path = defaultLogPath
	}
	cleanup, err := log.InitWithTeaLog(path, "gitmon")
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatApp, "gitmon starting", "version", version, "logPath", path)
	return cleanup, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	r, err := resolveRepo(arg)
	if err != nil {
		return err
	}

	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	path, err := config.Locate(cfgFile, r.root)
	if err != nil {
		return err
	}
	cfg, err := config.Load(viper.GetViper(), path)
	if err != nil {
		return err
	}
	log.Info(log.CatConfig, "Resolved repository", "root", r.root, "gitDir", r.gitDir,
		"debounceMs", cfg.DebounceMs)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return run(ctx, cfg, r)
}

// run owns every resource of one dashboard session. Deferred calls release
// them in reverse order: input reader, watcher, multiplexer, terminal.
func run(ctx context.Context, cfg config.Config, r repo) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	term, err := terminal.Open(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("terminal setup: %w", err)
	}
	defer func() {
		if err := term.Close(); err != nil {
			log.ErrorErr(log.CatUI, "Restoring terminal failed", err)
		}
	}()

	mux := event.NewMux()
	defer mux.Close()

	w, err := watcher.New(watchConfig(cfg, r.root, r.gitDir))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Start(ctx, mux); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() {
		if err := w.Stop(); err != nil {
			log.Warn(log.CatWatcher, "Stopping watcher failed", "error", err)
		}
	}()

	src := input.NewTTYSource(os.Stdin)
	defer src.Close()
	reader := input.NewReader(src, mux, input.DefaultConfig())

	readerCtx, cancelReader := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reader.Run(readerCtx)
	}()
	defer func() {
		cancelReader()
		wg.Wait()
	}()

	controller := app.New(app.Config{
		LogLimit: cfg.LogLimit,
		LeadIn:   cfg.UI.SearchLeadIn,
		Grace:    input.DefaultGrace,
	}, app.Deps{
		Executor: r.executor,
		Events:   mux,
		Terminal: term,
		Renderer: ui.NewRenderer(cfg.Theme, cfg.UI.ShowHelpBar),
		Pager:    pager.NewRunner(pager.Detect(cfg.Pager, r.executor.GetConfig)),
		Input:    reader,
		Shows:    cachemanager.NewCommitShowCache(r.executor.GetCommitShow),
	})
	return controller.Run(ctx)
}

func watchConfig(cfg config.Config, root, gitDir string) watcher.Config {
	wc := watcher.DefaultConfig(root, gitDir)
	wc.Debounce = time.Duration(cfg.DebounceMs) * time.Millisecond
	if len(cfg.Watch.GitPaths) > 0 {
		wc.GitPaths = cfg.Watch.GitPaths
	}
	wc.ExtraIgnores = cfg.Watch.ExtraIgnores
	return wc
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
