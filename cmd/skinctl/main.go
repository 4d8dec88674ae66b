// Command skinctl runs the skin classifier and report renderer offline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"skin-health-backend/internal/shared/telemetry"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "skinctl",
		Short: "Offline tools for the skin health classifier",
		Long: `skinctl classifies skin photos with the same model and preprocessing as the
web service, and renders the PDF diagnosis report without a browser session.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/skinctl/config.yaml)")
	rootCmd.PersistentFlags().String("model", "skin_disease_model.tflite", "path to the TFLite model")
	rootCmd.PersistentFlags().Int("threads", 2, "interpreter threads")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "per-image inference timeout")
	rootCmd.PersistentFlags().String("disease-info", "", "knowledge base JSON (default: embedded)")
	rootCmd.PersistentFlags().Bool("verbose", false, "write JSON logs to stderr")

	_ = viper.BindPFlag("model.path", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("model.threads", rootCmd.PersistentFlags().Lookup("threads"))
	_ = viper.BindPFlag("model.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("knowledge.path", rootCmd.PersistentFlags().Lookup("disease-info"))
	_ = viper.BindPFlag("logging.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(reportCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "skinctl"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SKIN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if viper.GetBool("logging.verbose") {
		telemetry.SetOutput(zapcore.Lock(os.Stderr))
	} else {
		telemetry.SetOutput(zapcore.AddSync(io.Discard))
	}
	return nil
}
