// main is the entry point of the likeplot CLI.
package main

import (
	"os"

	"github.com/huangsam/likeplot/cmd"
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/runstore"
)

func main() {
	cmd.SetStoreManager(runstore.Manager)
	defer runstore.CloseStore()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Cannot stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogWarn("Command failed", err)
		runstore.CloseStore()
		os.Exit(1)
	}
}
