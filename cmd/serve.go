package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/neo/passwordanalyzer/internal/logging"
	"github.com/neo/passwordanalyzer/internal/server"
	"github.com/spf13/cobra"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Password Analyzer web server",
	Long: `Start the web server that renders the analyzer form at / and
accepts submissions at /analyze. Optional JSON and WebSocket endpoints
are controlled by the feature flags file, which is re-read on SIGHUP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("config")
		config, err := server.LoadConfig(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			config.Port = strconv.Itoa(port)
		}

		if err := setupLogging(config); err != nil {
			return err
		}
		defer logging.GetDefaultLogger().Close()

		if config.IsDevelopment() {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		featureFlags, err := server.NewFeatureFlagManager(config.FeatureFlagsPath)
		if err != nil {
			return err
		}
		logging.Info("Feature flags loaded", map[string]interface{}{
			"path":  config.FeatureFlagsPath,
			"flags": fmt.Sprintf("%+v", featureFlags.GetFlags()),
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hangups := make(chan os.Signal, 1)
		signal.Notify(hangups, syscall.SIGHUP)
		defer signal.Stop(hangups)
		go reloadOnHangup(ctx, hangups, featureFlags)

		srv := server.NewServer(config, featureFlags)
		return srv.Run(ctx, config.Addr(), config.ShutdownTimeout)
	},
}

// reloadOnHangup re-reads the feature flags file on every signal until ctx is done.
// A failed reload keeps the previous flags.
func reloadOnHangup(ctx context.Context, signals <-chan os.Signal, featureFlags *server.FeatureFlagManager) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			if err := featureFlags.Reload(); err != nil {
				logging.Error("Feature flag reload failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			logging.Info("Feature flags reloaded", map[string]interface{}{
				"flags": fmt.Sprintf("%+v", featureFlags.GetFlags()),
			})
		}
	}
}

func setupLogging(config *server.Config) error {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return logging.InitDefaultLogger(logging.Config{
		Level:       level,
		Prefix:      "PwAnalyzer",
		Colored:     config.IsDevelopment(),
		LogToFile:   config.LogFile != "",
		LogFilePath: config.LogFile,
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to run the server on (overrides PORT)")
}
