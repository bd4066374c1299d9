package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/apiforge/apiforge/config"
	"github.com/apiforge/apiforge/utils"
	"github.com/apiforge/apiforge/utils/log"
)

var version = "dev"

var rootExamples = `
  Generate:
	apiforge generate --spec ./openapi.yaml --output ./cases.json

  Run:
	apiforge run --cases ./cases.json --base-url "http://localhost:8080" --report-format markdown --report-path report.md

  Serve:
	apiforge serve --port 8086
`

func SetFlags(logger *zap.Logger, cmd *cobra.Command, conf *config.Config) error {
	cmd.PersistentFlags().Bool("debug", conf.Debug, "Run in debug mode")
	cmd.PersistentFlags().String("configPath", conf.ConfigPath, "Path to the directory holding the apiforge config file")
	cmd.PersistentFlags().String("storageDir", conf.StorageDir, "Directory where generated cases and run results are stored")
	cmd.PersistentFlags().StringP("spec", "s", conf.Spec, "Path or URL of the OpenAPI document")
	cmd.PersistentFlags().String("baseUrl", conf.BaseURL, "Base URL of the API under test")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		logger.Error("failed to bind flags to config", zap.Error(err))
		return err
	}
	return nil
}

func LogExample(example string) string {
	return fmt.Sprintf("Example usage: %s", example)
}

func CheckPersistent(logger *zap.Logger, conf *config.Config) error {
	if conf.ConfigPath != "" {
		viper.SetConfigName("apiforge")
		viper.AddConfigPath(conf.ConfigPath)
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				logger.Error("failed to read the config file", zap.Error(err))
				return err
			}
		}
	}
	if err := viper.Unmarshal(conf); err != nil {
		logger.Error("failed to unmarshal the config", zap.Error(err))
		return err
	}

	if conf.Debug {
		if _, err := log.ChangeLogLevel(zapcore.DebugLevel); err != nil {
			return err
		}
	}

	if conf.StorageDir != "" {
		abs, err := filepath.Abs(conf.StorageDir)
		if err != nil {
			logger.Error("failed to resolve storage directory", zap.String("dir", conf.StorageDir), zap.Error(err))
			return err
		}
		conf.StorageDir = abs
	}

	logger.Debug("initialized with configuration", zap.Any("conf", conf))
	return nil
}

func Root(ctx context.Context, logger *zap.Logger) *cobra.Command {
	conf := config.New()

	var rootCmd = &cobra.Command{
		Use:     "apiforge",
		Short:   "apiforge generates and executes API test cases from OpenAPI documents",
		Example: rootExamples,
		Version: version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return CheckPersistent(logger, conf)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(`{{with .Version}}{{printf "apiforge %s" .}}{{end}}{{"\n"}}`)

	if err := SetFlags(logger, rootCmd, conf); err != nil {
		logger.Error("failed to set flags", zap.Error(err))
		return nil
	}

	for _, hook := range Registered {
		c := hook(ctx, logger, conf)
		if c == nil {
			continue
		}
		utils.BindFlagsToViper(logger, c, "")
		rootCmd.AddCommand(c)
	}
	return rootCmd
}

// Execute runs the root command and reports failure through the exit
// code.
func Execute(ctx context.Context, logger *zap.Logger) {
	if err := Root(ctx, logger).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
