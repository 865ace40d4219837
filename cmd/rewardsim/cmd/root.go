package cmd

import (
	"io"
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagVerbose  = "verbose"
	flagQuiet    = "quiet"
	flagFailFast = "fail-fast"
)

// NewRootCmd returns the rewardsim command tree.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("REWARDSIM")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "rewardsim",
		Short:        "Replay reward ledger scenarios against an in-memory store",
		SilenceUsage: true,
	}
	addOutputFlags(root.PersistentFlags())
	if err := v.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(newRunCmd(v))
	return root
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.BoolP(flagVerbose, "v", false, "Log module output to stderr")
	fs.BoolP(flagQuiet, "q", false, "Only print failures and the summary")
}

func newLogger(v *viper.Viper, w io.Writer) log.Logger {
	if !v.GetBool(flagVerbose) {
		return log.NewNopLogger()
	}
	if w == nil {
		w = os.Stderr
	}
	return log.NewLogger(w, log.ColorOption(false))
}
