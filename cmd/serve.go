package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sanket200511/CrisisForge-AI/internal/alerts"
	"github.com/sanket200511/CrisisForge-AI/internal/server"
	"github.com/sanket200511/CrisisForge-AI/internal/store"
)

var (
	serverConfigFile string // Optional YAML server config
	listenAddr       string // Overrides the configured listen address when set
)

// serveCmd runs the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation API over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := server.LoadConfig(serverConfigFile)
		if err != nil {
			logrus.Fatalf("Unable to load server config: %v", err)
		}
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}
		if cfg.DemoSeed == 0 {
			cfg.DemoSeed = seed
		}

		var opts []server.Option
		if cfg.DatabaseDSN != "" {
			st, err := store.Open(cfg.DatabaseDSN)
			if err != nil {
				logrus.Fatalf("Unable to open run store: %v", err)
			}
			defer st.Close()
			if err := st.Init(context.Background()); err != nil {
				logrus.Fatalf("Unable to initialize run store: %v", err)
			}
			opts = append(opts, server.WithStore(st))
			logrus.Info("Run persistence enabled")
		}
		notifier := &alerts.TelegramNotifier{Token: cfg.TelegramToken, ChatID: cfg.TelegramChatID}
		if notifier.Configured() {
			opts = append(opts, server.WithNotifier(notifier))
			logrus.Info("Telegram alerts enabled")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, opts...)
		if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server error: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverConfigFile, "config", "", "YAML server config file")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
