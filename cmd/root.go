// Package cmd provides the root command and CLI setup for analyze-bcpf.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// reportsOutputDirFlag is a root-level flag naming the directory analysis
// reports are written to.
var reportsOutputDirFlag string

// verboseFlag enables debug logging.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

const rootLongDescription = `analyze-bcpf analyzes a bootclasspath_fragment module in an Android
source tree. It rebuilds the monolithic hidden API artifacts, captures any
"Hidden API flags are inconsistent" diagnostics reported by the build, and
turns them into a concrete set of suggested changes: entries to move out of
the frameworks/base/boot/hiddenapi override files and hidden_api properties
to add to the fragment's Android.bp file.

The tool only suggests changes, it never modifies any files.

Run it from an initialized build environment (lunch) with ANDROID_BUILD_TOP
set.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze-bcpf",
		Short: "Analyze a bootclasspath_fragment module",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func init() {
	configureRootFlags(rootCmd)
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for analysis reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&verboseFlag, verboseFlagName, false, "log debug output, including every build line")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file location (default "+defaultLogFilename+")")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
