package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario-file]...",
		Short: "Run one or more scenario files (yaml, json or toml)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if v.GetBool(flagQuiet) {
				out = io.Discard
			}
			failed := 0
			for _, path := range args {
				sc, err := LoadScenario(path)
				if err != nil {
					return err
				}
				runner, err := NewRunner(sc, newLogger(v, os.Stderr), out)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "== %s\n", sc.Name)
				if err := runner.Run(); err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", sc.Name, err)
					if v.GetBool(flagFailFast) {
						break
					}
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d steps)\n", sc.Name, len(sc.Steps))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().Bool(flagFailFast, false, "Stop at the first failing scenario")
	if err := v.BindPFlag(flagFailFast, cmd.Flags().Lookup(flagFailFast)); err != nil {
		panic(err)
	}
	return cmd
}
