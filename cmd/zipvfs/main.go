package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"zipvfs/internal/archive"
	"zipvfs/internal/config"
	"zipvfs/internal/logging"
	"zipvfs/internal/mount"
	"zipvfs/internal/shell"
	"zipvfs/internal/vfs"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var (
	logger = logging.GetLogger()

	flagConfigFilePath string // value of --config flag
	flagVerbose        bool   // value of --verbose flag
	flagScript         string // value of shell --script flag
)

var rootCmd = &cobra.Command{
	Use:   "zipvfs",
	Short: "Browse a ZIP archive as a read-only filesystem",
}

var shellCmd = &cobra.Command{
	Use:   "shell ARCHIVE",
	Short: "start an interactive shell inside the archive",
	Args:  cobra.ExactArgs(1),
	RunE:  doShell,
}

var mountCmd = &cobra.Command{
	Use:   "mount ARCHIVE MOUNTPOINT",
	Short: "mount the archive read-only with FUSE until interrupted",
	Args:  cobra.ExactArgs(2),
	RunE:  doMount,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	RunE:  doVersion,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "YAML config file to load")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")
	shellCmd.Flags().StringVar(&flagScript, "script", "", "file of commands to run before the interactive prompt")

	// never print messages and usage
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(versionCmd)

	if cmd, err := rootCmd.ExecuteC(); err != nil {
		logger.Error("zipvfs failed: %v", err)
		if strings.HasPrefix(err.Error(), "unknown command") {
			_ = rootCmd.Help()
		} else {
			_ = cmd.Help()
		}
		os.Exit(1)
	}
}

// loadConfig reads --config and applies the log level, letting --verbose
// win over the file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfigFilePath)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if os.Getenv("LOG_LEVEL") == "" {
		logger.SetLevel(level)
	}
	if flagVerbose {
		logger.SetLevel(logging.LevelDebug)
	}
	return cfg, nil
}

func doShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fs, err := vfs.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot initialize virtual filesystem: %w", err)
	}
	defer func() {
		if err := fs.Close(); err != nil {
			logger.Warn("Failed to close archive: %v", err)
		}
	}()

	emulator := shell.NewEmulator(fs, cmd.OutOrStdout(), shell.WithPrompt(cfg.Prompt))

	script := cfg.Script
	if flagScript != "" {
		script = flagScript
	}
	if script != "" {
		logger.Info("Replaying startup script: %s", script)
		if err := runScript(emulator, script); err != nil {
			// the interactive session still starts
			logger.Error("Startup script failed: %v", err)
		}
	}

	return emulator.Run(cmd.InOrStdin())
}

func runScript(emulator *shell.Emulator, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return emulator.RunScript(f)
}

func doMount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	idx, err := archive.Open(args[0])
	if err != nil {
		return err
	}
	defer idx.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	fsys := mount.New(idx,
		mount.WithFSName(cfg.Mount.FSName),
		mount.WithAllowOther(cfg.Mount.AllowOther),
	)
	if err := fsys.Serve(ctx, args[1]); err != nil && ctx.Err() != context.Canceled {
		return err
	}

	logger.Info("Clean shutdown complete")
	return nil
}

func doVersion(cmd *cobra.Command, _ []string) error {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return fmt.Errorf("zipvfs: version info not available")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "zipvfs: %s\n", info.Main.Version)
	fmt.Fprintf(out, "go:     %s\n", info.GoVersion)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			fmt.Fprintf(out, "commit: %s\n", s.Value)
		case "vcs.time":
			fmt.Fprintf(out, "date:   %s\n", s.Value)
		}
	}
	return nil
}
