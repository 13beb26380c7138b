package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pitchforge/pitchforge/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [idea]",
	Short: "Extract structured business elements from a startup idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := newEnv(ctx, "generate")
		if err != nil {
			return err
		}
		defer env.Close()

		elements, err := extract.NewExtractor(env.Client).Extract(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "extract elements")
		}

		out, err := json.MarshalIndent(elements, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal elements")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
