package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/imgresize/internal/adapters/codec"
	"github.com/kamal-hamza/imgresize/internal/adapters/watcher"
	"github.com/kamal-hamza/imgresize/internal/core/ports"
	"github.com/kamal-hamza/imgresize/internal/core/services"
	"github.com/kamal-hamza/imgresize/pkg/appdirs"
	"github.com/kamal-hamza/imgresize/pkg/config"
	"github.com/kamal-hamza/imgresize/pkg/logger"
	"github.com/kamal-hamza/imgresize/pkg/ui"
)

var (
	// Resolved per-user locations
	appDirs   *appdirs.Dirs
	appConfig *config.Config
	appLogger *zap.Logger

	// Services
	rewriteService *services.RewriteService

	// Adapters
	imageCodec *codec.ImagingCodec
)

// rootCmd launches the drop surface when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgresize",
	Short: "Resize dropped images to multiples of 4",
	Long: ui.StyleTitle.Render("imgresize") + " - Image Resize Digdin Rusty version\n\n" +
		"Drag images onto the terminal window and each one is rewritten in place\n" +
		"as a PNG whose width and height are both multiples of 4.",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: syncLogger,
	RunE:               runRoot,
}

// Execute runs the command tree with signal handling and --version support
func Execute() {
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}

// initializeApp loads config, opens the log file and wires the services
func initializeApp(cmd *cobra.Command, args []string) error {
	dirs, err := appdirs.New()
	if err != nil {
		return fmt.Errorf("failed to resolve application directories: %w", err)
	}
	appDirs = dirs

	cfg, err := config.Load(appDirs.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	// The log file is optional; without a state directory we run silent
	appLogger = zap.NewNop()
	if err := appDirs.EnsureStateDir(); err == nil {
		l, err := logger.New(appConfig.LogLevel, appDirs.LogPath)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		appLogger = l
	}

	imageCodec = codec.NewImagingCodec(appLogger)
	rewriteService = services.NewRewriteService(imageCodec, codec.NewGaussianResampler(), appLogger)

	return nil
}

func syncLogger(cmd *cobra.Command, args []string) error {
	if appLogger != nil {
		_ = appLogger.Sync()
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	m := newSurfaceModel(rewriteService, imageCodec, appConfig.PickerDir, appLogger)

	var sources []ports.PathSource
	if appConfig.DropDir != "" {
		debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
		folder, err := watcher.NewDropFolder(appConfig.DropDir, debounce, appLogger)
		if err != nil {
			appLogger.Warn("Drop folder unavailable", zap.Error(err))
		} else {
			sources = append(sources, folder)
			m.watching = folder.Dir()
		}
	}

	program := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	appLogger.Info("Drop surface started",
		zap.String("version", Version),
		zap.String("drop_dir", m.watching))

	return runSurface(program, appLogger, sources...)
}
