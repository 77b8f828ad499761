package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgresize/internal/adapters/codec"
	"github.com/kamal-hamza/imgresize/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your imgresize installation",
	Long: `Diagnose issues with your imgresize setup.

Checks for:
  - Configuration file
  - Log directory
  - Drop folder (when configured)
  - Picker directory`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("🏥 imgresize Doctor"))
	fmt.Println()

	// 1. Check Config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appDirs.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use, run 'imgresize config' to create)", appDirs.ConfigPath)
		}
		return nil
	})

	// 2. Check Logging
	checkStep("Log Directory", func() error {
		info, err := os.Stat(appDirs.StateDir)
		if err != nil {
			return fmt.Errorf("unavailable at %s: %v", appDirs.StateDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", appDirs.StateDir)
		}
		return nil
	})

	// 3. Check Drop Channels
	if appConfig.DropDir == "" {
		fmt.Println(ui.FormatSkipped("Drop Folder"))
		fmt.Printf("    %s\n", ui.StyleMuted.Render("not configured (set drop_dir to enable)"))
	} else {
		checkStep("Drop Folder", func() error {
			return checkDir(appConfig.DropDir)
		})
	}

	checkStep("Picker Directory", func() error {
		if appConfig.PickerDir == "" {
			return nil
		}
		return checkDir(appConfig.PickerDir)
	})

	// 4. Check Environment
	checkStep("EDITOR Variable", func() error {
		if os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi')")
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Config", appDirs.ConfigPath))
	fmt.Println(ui.RenderKeyValue("Log", appDirs.LogPath))
	fmt.Println(ui.RenderKeyValue("Formats", supportedFormats()))
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("missing at %s", path)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// supportedFormats lists decodable containers, marking decode-only ones
func supportedFormats() string {
	names := make([]string, 0, len(codec.Formats))
	for _, f := range codec.Formats {
		if f.Encodable {
			names = append(names, f.Name)
		} else {
			names = append(names, f.Name+" (read only)")
		}
	}
	return strings.Join(names, ", ")
}
