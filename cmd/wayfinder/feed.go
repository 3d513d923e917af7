package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"wayfinder/internal/feed"
	"wayfinder/internal/ui"

	"github.com/spf13/cobra"
)

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Serve or read the goal feed",
		Long: `The goal feed answers GET with {"node": "<name>"}. POST or PUT the same
body to change the published goal.

  wayfinder feed serve --node D
  wayfinder feed get`,
	}

	cmd.AddCommand(feedServeCmd(), feedGetCmd())

	return cmd
}

func feedServeCmd() *cobra.Command {
	var (
		addr string
		node string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Publish a goal node over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadConfig(); err != nil {
				return err
			}
			logger := slog.Default()

			srv := feed.NewServer(node)
			srv.SetLogger(logger)

			mux := http.NewServeMux()
			mux.Handle("/", srv)
			mux.Handle("/fire-source", srv)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(ui.Out, "  Serving goal %s on %s\n", ui.Brand.Sprint(node), ui.Info.Sprint(addr))
			logger.Info("goal feed listening", slog.String("addr", addr), slog.String("goal", node))

			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5050", "Listen address")
	cmd.Flags().StringVar(&node, "node", "", "Initial goal node name")

	return cmd
}

func feedGetCmd() *cobra.Command {
	var feedURL string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch the current goal from the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if feedURL == "" {
				feedURL = cfg.Feed.URL
			}

			goal, err := feed.NewClient(feedURL, cfg.Feed.Timeout.Duration).Fetch(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(feed.Goal{Node: goal})
			}
			fmt.Fprintf(ui.Out, "  %s\n", ui.Brand.Sprint(goal))
			return nil
		},
	}

	cmd.Flags().StringVar(&feedURL, "feed", "", "Goal feed URL (default from config)")

	return cmd
}
