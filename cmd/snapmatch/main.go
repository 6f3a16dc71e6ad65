package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NeuronJay/snapmatch/pkg/logging"
)

var version = "dev"

func main() {
	logging.Init()

	root := &cobra.Command{
		Use:     "snapmatch",
		Short:   "SnapMatch — content-addressed cache for AI image search verdicts",
		Version: version,
	}

	root.AddCommand(newCacheCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
