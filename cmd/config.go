package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgresize/pkg/config"
	"github.com/kamal-hamza/imgresize/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the imgresize configuration file",
	Long: `Open the configuration file in $EDITOR.

The file is created with default values if it does not exist yet.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := appDirs.ConfigPath

	created, err := ensureConfigFile(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Println(ui.FormatSuccess("Created default config: " + path))
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	editor := os.Getenv("EDITOR")
	if editor == "" {
		fmt.Println(ui.FormatWarning("EDITOR not set, using vi"))
		editor = "vi"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// ensureConfigFile writes the default config to path if nothing is there.
// It reports whether a file was created.
func ensureConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return false, fmt.Errorf("failed to create config file: %w", err)
	}
	return true, nil
}
