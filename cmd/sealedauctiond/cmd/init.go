package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skip-mev/sealed-auction/x/sealedauction"
)

const flagOverwrite = "overwrite"

// InitCmd writes the default config and genesis files of a new node.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the config and genesis files of a node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}

			overwrite, err := cmd.Flags().GetBool(flagOverwrite)
			if err != nil {
				return err
			}

			if _, err := os.Stat(ConfigPath(home)); err == nil && !overwrite {
				return fmt.Errorf("%s already exists, use --%s to replace it", ConfigPath(home), flagOverwrite)
			}

			if err := WriteConfig(DefaultConfig(home)); err != nil {
				return err
			}

			basic := sealedauction.AppModuleBasic{}
			appState, err := json.MarshalIndent(map[string]json.RawMessage{basic.Name(): basic.DefaultGenesis()}, "", "  ")
			if err != nil {
				return err
			}

			if err := os.WriteFile(GenesisPath(home), appState, 0o644); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "initialized node in %s\n", home)
			return err
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "overwrite existing config and genesis files")

	return cmd
}

// readGenesis reads the application genesis of home. A missing file yields an
// empty app state, which initializes every module with its defaults.
func readGenesis(home string) (map[string]json.RawMessage, error) {
	bz, err := os.ReadFile(GenesisPath(home))
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	var appState map[string]json.RawMessage
	if err := json.Unmarshal(bz, &appState); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", GenesisPath(home), err)
	}

	return appState, nil
}

// ValidateGenesisCmd validates the genesis file of the node.
func ValidateGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-genesis",
		Short: "Validate the genesis file of the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}

			appState, err := readGenesis(home)
			if err != nil {
				return err
			}

			basic := sealedauction.AppModuleBasic{}
			if bz, ok := appState[basic.Name()]; ok {
				if err := basic.ValidateGenesis(bz); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid genesis file\n", GenesisPath(home))
			return err
		},
	}
}
