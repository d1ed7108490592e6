package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"screen-answer-llm/src/clipboard"
	"screen-answer-llm/src/config"
	"screen-answer-llm/src/eventloop"
	"screen-answer-llm/src/hotkey"
	"screen-answer-llm/src/logutil"
	"screen-answer-llm/src/notification"
	"screen-answer-llm/src/overlay"
	"screen-answer-llm/src/runtimeinit"
	"screen-answer-llm/src/screenshot"
	"screen-answer-llm/src/session"
	"screen-answer-llm/src/singleinstance"
	"screen-answer-llm/src/state"
	"screen-answer-llm/src/stealth"
	"screen-answer-llm/src/tray"
)

const appID = "io.github.screen-answer-llm"

type mainOptions struct {
	envFile    string
	apiKeyPath string
	verbose    bool
	once       bool
	// resident is set once the GUI path starts, so errors get a dialog
	resident bool
}

func (o *mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{EnvFileOverride: o.envFile, APIKeyPathOverride: o.apiKeyPath}
}

func (o *mainOptions) runtimeOptions() runtimeinit.Options {
	return runtimeinit.Options{LoadOptions: o.loadOptions(), Verbose: o.verbose}
}

// legacyLongFlags are accepted with a single dash for scripts written
// against Go's flag package.
var legacyLongFlags = []string{"once", "env-file", "api-key-path", "verbose"}

func normalizeLegacyArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 1; i < len(out); i++ {
		arg := out[i]
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
			continue
		}
		name := strings.SplitN(arg[1:], "=", 2)[0]
		for _, long := range legacyLongFlags {
			if name == long {
				out[i] = "-" + arg
				break
			}
		}
	}
	return out
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-answer-llm",
		Short:         "Capture the screen, ask a multimodal model, show the answer on a hotkey",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.once {
				return runOnce(cmd.Context(), opts, cmd.OutOrStdout())
			}
			return runResident(opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", "", "Path to a .env file (overrides the default lookup)")
	flags.StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to a file holding the API key")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to the console")
	cmd.Flags().BoolVar(&opts.once, "once", false, "Capture and query once, print the answer and exit")

	cmd.AddCommand(newTriggerCmd(opts), newAnswerCmd(opts))
	return cmd
}

func newTriggerCmd(opts *mainOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Ask the running instance to capture and query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrigger(cmd.Context(), singleinstance.NewClient(controlPort(opts)), cmd.OutOrStdout())
		},
	}
}

func newAnswerCmd(opts *mainOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "answer",
		Short: "Print the running instance's latest answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnswer(cmd.Context(), singleinstance.NewClient(controlPort(opts)), cmd.OutOrStdout())
		},
	}
}

func controlPort(opts *mainOptions) int {
	cfg, err := config.LoadWithOptions(opts.loadOptions())
	if err != nil {
		return config.DefaultControlPort
	}
	return cfg.ControlPort
}

func runTrigger(ctx context.Context, c singleinstance.Client, out io.Writer) error {
	if err := c.Trigger(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "OK")
	return err
}

func runAnswer(ctx context.Context, c singleinstance.Client, out io.Writer) error {
	text, err := c.Answer(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

// runOnce runs one capture and query without the GUI.
func runOnce(ctx context.Context, opts *mainOptions, out io.Writer) error {
	rt, err := runtimeinit.Bootstrap(ctx, opts.runtimeOptions())
	if err != nil {
		return err
	}
	return queryOnce(ctx, rt.Config, screenshot.Capture, rt.LLM.Query, clipboard.System{}, out)
}

func queryOnce(ctx context.Context, cfg *config.Config, capture session.CaptureFunc, query session.QueryFunc, cb clipboard.Writer, out io.Writer) error {
	res, err := session.Execute(ctx, session.Options{
		Capture:       capture,
		Query:         query,
		Deadline:      cfg.RequestTimeout,
		DebugImageDir: debugImageDir(cfg),
	})
	if err != nil {
		return err
	}
	log.Printf("Run %s: %q", res.RunID, logutil.Sanitize(res.Text))
	if err := cb.Write(res.Text); err != nil {
		log.Printf("Clipboard error: %v", err)
	}
	_, err = fmt.Fprintln(out, res.Text)
	return err
}

func debugImageDir(cfg *config.Config) string {
	if !cfg.DebugSaveImages {
		return ""
	}
	if cfg.LogDir != "" {
		return cfg.LogDir
	}
	return filepath.Join(os.TempDir(), "screen-answer-llm")
}

// runResident starts the hotkey listener, control endpoint and overlay, and
// blocks in the GUI loop until a signal or the tray's Quit.
func runResident(opts *mainOptions) error {
	opts.resident = true
	enableDPIAwareness()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := runtimeinit.Bootstrap(ctx, opts.runtimeOptions())
	if err != nil {
		return err
	}
	defer logutil.Close()
	cfg := rt.Config

	bindings, err := hotkey.NewBindings(cfg.TriggerKey, cfg.RevealKey, cfg.StopKey)
	if err != nil {
		return fmt.Errorf("invalid key binding: %w", err)
	}

	srv := singleinstance.NewServer(cfg.ControlPort)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Close()

	if dir := debugImageDir(cfg); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("Warning: cannot create debug image dir: %v", err)
		}
	}

	hooks := stealth.New(cfg.Stealth)
	stealth.HideLaunchWindow(hooks)
	stealth.ScheduleConsoleHide(ctx, hooks, cfg.ConsoleHideDelay)

	a := app.NewWithID(appID)
	a.Settings().SetTheme(overlay.NewTheme())
	display := overlay.New(a, hooks,
		overlay.WithScreenSize(func() (int, int) {
			return screenshot.ScreenSize(1920, 1080)
		}),
		overlay.WithScale(func() float32 {
			return systemScale() * a.Settings().Scale()
		}),
	)

	var statusTray *tray.Tray
	loop := eventloop.New(eventloop.Options{
		Capture:       screenshot.Capture,
		Query:         rt.LLM.Query,
		Overlay:       display,
		Clipboard:     clipboard.System{},
		Server:        srv,
		MaxInFlight:   cfg.MaxInFlight,
		Deadline:      cfg.RequestTimeout,
		DebugImageDir: debugImageDir(cfg),
		OnStatus:      func(st state.Status) { statusTray.SetStatus(st) },
	})
	if cfg.ShowTray {
		statusTray, _ = tray.Setup(a, loop.Trigger, cancel)
	}

	listener := hotkey.NewListener(bindings)
	listener.Listen(ctx, loop.HandleAction)

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(ctx)
		fyne.Do(a.Quit)
	}()

	log.Printf("Ready: press %q to capture, hold %q to show the answer, %q stops the hotkeys (control port %d)",
		bindings.Trigger.Name, bindings.Reveal.Name, bindings.Stop.Name, srv.Port())
	a.Run()

	cancel()
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Printf("Exiting")
	return nil
}

func main() {
	// fyne's driver must own the main OS thread
	runtime.LockOSThread()

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(normalizeLegacyArgs(os.Args)[1:])
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if opts.resident {
			notification.ShowBlockingError("Screen Answer LLM", err.Error())
		}
		os.Exit(1)
	}
}
