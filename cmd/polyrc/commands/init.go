package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/config"
	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/git"
	"github.com/thoreinstein/polyrc/internal/store"
)

var initFlags struct {
	store string
	repo  string
}

func init() {
	f := initCmd.Flags()
	f.StringVar(&initFlags.store, "store", "", "store location (default ~/.polyrc/store)")
	f.StringVar(&initFlags.repo, "repo", "", "git remote to clone the store from")

	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local rule store",
	Long: `Init creates the git-backed local store that push-format and
pull-format operate on. With --repo the store is cloned from an existing
remote instead of starting empty, so a second machine picks up where the
first left off.`,
	Example: `  polyrc init
  polyrc init --repo git@github.com:me/rules.git`,
	RunE: func(c *cobra.Command, _ []string) error {
		if url := initFlags.repo; url != "" && !git.IsURL(url) {
			return polyerrors.NewUserError(nil,
				fmt.Sprintf("--repo %q does not look like a git URL (https://, git@, or .git)", url))
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		storePath := initFlags.store
		if storePath == "" {
			storePath = cfg.StorePath()
		}

		if url := initFlags.repo; url != "" {
			fmt.Fprintf(c.OutOrStdout(), "Cloning %s into %s\n", url, storePath)
			if err := git.Clone(url, storePath); err != nil {
				return err
			}
			// A clone of an existing store keeps its manifest; a fresh
			// remote gets one.
			if m, err := store.LoadManifest(storePath); err != nil {
				if _, err := store.Init(storePath, url); err != nil {
					return err
				}
			} else {
				m.Remote.URL = url
				if err := m.Save(storePath); err != nil {
					return err
				}
			}
		} else {
			fmt.Fprintf(c.OutOrStdout(), "Initializing local store at %s\n", storePath)
			if _, err := store.Init(storePath, ""); err != nil {
				return err
			}
		}

		if err := cfg.SetStorePath(storePath); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "Store ready at %s\n", storePath)
		return nil
	},
}
