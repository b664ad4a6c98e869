package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gitmon/internal/config"
	"github.com/zjrosen/gitmon/internal/git"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the gitmon config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Write the default config file with every option commented.

Without a path the file goes to .gitmon/config.yaml in the current
repository, or to ~/.config/gitmon/config.yaml outside a repository.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigTarget()
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no config path: pass one explicitly")
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one option in the config file",
	Long: `Set one option in the config file, keeping comments and the rest of
the file intact. The file is the one --config names, else the first
existing file gitmon would read, else the default init location.

Keys: ` + strings.Join(config.ScalarKeys(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			found, err := config.Locate("", currentRepoRoot())
			if err != nil {
				return err
			}
			path = found
		}
		if path == "" {
			path = defaultConfigTarget()
		}
		if path == "" {
			return errors.New("no config path: pass --config")
		}
		if err := setConfigValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// setConfigValue validates the result of applying key=value to the file
// before writing it, so a bad value never reaches disk.
func setConfigValue(path, key, value string) error {
	v := viper.New()
	if _, err := config.Load(v, path); err != nil {
		return err
	}
	v.Set(key, value)

	var next config.Config
	if err := v.Unmarshal(&next); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := config.Validate(next); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return config.SaveValue(path, key, value)
}

func currentRepoRoot() string {
	root, err := git.NewRealExecutor(".").GetRepoRoot()
	if err != nil {
		return ""
	}
	return root
}

func defaultConfigTarget() string {
	if root := currentRepoRoot(); root != "" {
		return filepath.Join(root, config.RepoConfigPath)
	}
	return config.UserConfigPath()
}
