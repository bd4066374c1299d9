package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/config"
	"github.com/apiforge/apiforge/pkg/api"
	"github.com/apiforge/apiforge/pkg/storage"
	"github.com/apiforge/apiforge/utils"
)

func init() {
	Register("serve", Serve)
}

func Serve(ctx context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "serve",
		Short:   "run the apiforge HTTP server",
		Example: `apiforge serve --port 8086`,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := storage.New(logger, conf.StorageDir)
			if err != nil {
				utils.LogError(logger, err, "failed to open storage")
				return nil
			}
			if err := api.Serve(ctx, logger, conf, store); err != nil {
				utils.LogError(logger, err, "http server stopped")
			}
			return nil
		},
	}

	cmd.Flags().String("host", conf.Server.Host, "Host the server listens on")
	cmd.Flags().Uint32("port", conf.Server.Port, "Port the server listens on")

	for key, flag := range map[string]string{
		"server.host": "host",
		"server.port": "port",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			utils.LogError(logger, err, "failed to bind serve flags")
			return nil
		}
	}

	return cmd
}
