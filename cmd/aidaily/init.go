package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abelbrown/aidaily/internal/config"
)

func initCmd(gf *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeDefaultConfig(cmd.OutOrStdout(), gf.configPath, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// writeDefaultConfig saves the defaults to path, or to the standard location
// when path is empty. An existing file is kept unless force is set.
func writeDefaultConfig(w io.Writer, path string, force bool) error {
	target := path
	if target == "" {
		target = config.ConfigPath()
	}
	if _, err := os.Stat(target); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	}

	cfg := config.DefaultConfig()
	var err error
	if path == "" {
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(w, "✓ 配置已写入 %s\n", target)
	return nil
}
