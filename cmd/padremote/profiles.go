package main

import (
	"github.com/frudas24/padremote/internal/config"
	"github.com/spf13/cobra"
)

// newProfilesCmd prints the resolved gesture profiles in the override file layout.
func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Print the gesture profiles, including overrides from PROFILE_PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out, err := config.MarshalProfiles(cfg.Profiles)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
