package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/platformbuild/analyze-bcpf/internal/adapter"
	"github.com/platformbuild/analyze-bcpf/internal/controller"
	"github.com/platformbuild/analyze-bcpf/internal/domain"
)

var bcpfFlag string
var apexFlag string
var sdkFlag string
var noReportFlag bool

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a bootclasspath_fragment module",
		Long: `Analyze a bootclasspath_fragment module: rebuild the monolithic hidden
API artifacts, capture inconsistent flag diagnostics and suggest the file
and Android.bp changes needed to resolve them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logPath := configureLogger(logFileFlag, verboseFlag)
			cmd.Printf("Writing log to %s\n", logPath)

			cfg, err := configFromEnvironment()
			if err != nil {
				return err
			}

			ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))
			runner := adapter.NewSoongRunner(cfg.TopDir)
			outputFS := adapter.NewLocalOutputFS()

			analyzer := domain.NewAnalyzer(cfg, runner, outputFS, ui)

			result, err := analyzer.Analyze(cmd.Context())
			if err != nil {
				return err
			}

			if noReportFlag {
				return nil
			}

			store := adapter.NewReportStore()

			reportPath, err := store.Save(viper.GetString(outputFlagName), cfg.Bcpf, *result)
			if err != nil {
				return err
			}

			cmd.Printf("\nReport written to %s\n", reportPath)

			return nil
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&bcpfFlag, "bcpf", "", "the bootclasspath_fragment module to analyze")
	cobra.CheckErr(cmd.MarkFlagRequired("bcpf"))

	cmd.Flags().StringVar(&apexFlag, "apex", "SPECIFY-APEX-OPTION",
		"the apex module containing the bootclasspath_fragment, used to make the advice concrete")
	cmd.Flags().StringVar(&sdkFlag, "sdk", "SPECIFY-SDK-OPTION",
		"the sdk module containing the bootclasspath_fragment, used to make the advice concrete")
	cmd.Flags().BoolVar(&noReportFlag, "no-report", false, "do not write a YAML report of the analysis")
}

// configFromEnvironment derives the analysis config from the build
// environment, the same variables lunch sets up.
func configFromEnvironment() (domain.Config, error) {
	topDir := os.Getenv("ANDROID_BUILD_TOP")
	if topDir == "" {
		return domain.Config{}, fmt.Errorf("ANDROID_BUILD_TOP is not set, run lunch first")
	}

	outDir := os.Getenv("OUT_DIR")
	if outDir == "" {
		outDir = filepath.Join(topDir, "out")
	}

	productOutDir := os.Getenv("ANDROID_PRODUCT_OUT")
	if productOutDir == "" {
		productOutDir = topDir
	}

	// Make the product out dir top-relative so it can be used as part of a
	// build target.
	productOutDir = strings.TrimPrefix(strings.TrimPrefix(productOutDir, topDir), "/")

	return domain.Config{
		TopDir:           topDir,
		OutDir:           outDir,
		ProductOutDir:    productOutDir,
		Bcpf:             bcpfFlag,
		Apex:             apexFlag,
		Sdk:              sdkFlag,
		BuildWaitTimeout: viper.GetDuration(buildWaitTimeoutKey),
	}, nil
}
