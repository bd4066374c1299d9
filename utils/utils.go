package utils

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LogError logs the error with the given message and fields. A nil err
// is allowed for cases where only the message carries the failure.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if logger == nil {
		panic("logger is not set")
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Error(msg, fields...)
}

// BindFlagsToViper binds every flag of cmd into viper under the given
// key prefix, converting kebab-case flag names to camelCase keys, and
// binds the matching environment variable for each.
func BindFlagsToViper(logger *zap.Logger, cmd *cobra.Command, viperKeyPrefix string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		key := toCamelCase(flag.Name)
		if viperKeyPrefix != "" {
			key = viperKeyPrefix + "." + key
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			LogError(logger, err, "failed to bind flag to viper", zap.String("flag", flag.Name))
			bindErr = err
			return
		}
		envVar := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		envVar = strings.ReplaceAll(envVar, "-", "_")
		if err := viper.BindEnv(key, envVar); err != nil {
			LogError(logger, err, "failed to bind environment variable", zap.String("env", envVar))
			bindErr = err
		}
	})
	return bindErr
}

func toCamelCase(in string) string {
	parts := strings.Split(in, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
