// Command chameleon compiles .chm surface grammars into self-contained
// C fuzzing harnesses.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root := &cobra.Command{
		Use:   "chameleon",
		Short: "Compile structure-aware grammars into C generators/mutators",
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	}

	root.AddCommand(newTranslateCmd(log))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
