package main

import (
	"fmt"
	"os"

	"rewardchain/cmd/rewardsim/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
