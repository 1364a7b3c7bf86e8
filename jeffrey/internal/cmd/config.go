package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pbouda/jeffrey/jeffrey/internal/config"
)

var (
	printConfig bool

	validateConfigCmd = &cobra.Command{
		Use:   "validate-config FILE",
		Short: "Strictly validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app, err := makeCLI()
			if err != nil {
				return err
			}
			defer app.Shutdown()

			conf, err := config.ParseConfig(args[0], true)
			if err != nil {
				return err
			}
			app.Logger().Info(app.Context(), "Config is valid", zap.String("path", args[0]))

			if !printConfig {
				return nil
			}
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(conf)
		},
	}
)

func init() {
	validateConfigCmd.Flags().BoolVar(&printConfig, "print", false, "Print the config with defaults filled in")

	rootCmd.AddCommand(validateConfigCmd)
}
