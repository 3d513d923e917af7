package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"wayfinder/internal/feed"
	"wayfinder/internal/follow"
	"wayfinder/internal/history"
	"wayfinder/internal/navigator"
	"wayfinder/internal/ui"
	"wayfinder/internal/watch"
	"wayfinder/pkg/wayfinder"

	"github.com/spf13/cobra"
)

func followCmd() *cobra.Command {
	var (
		at       string
		feedURL  string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Poll the goal feed and re-plan the route every interval",
		Long: `Poll the goal feed, plan a route from the given position to the
published goal node, and print the frame whenever it is planned. The graph
file is reloaded when it changes on disk unless watching is disabled.

  wayfinder follow --at 0.5,0,0
  wayfinder follow --at 0.5,0,0 --feed http://localhost:5050/fire-source --interval 2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := wayfinder.ParseVector3D(at)
			if err != nil {
				return err
			}
			engine, cfg, err := loadEngine()
			if err != nil {
				return err
			}
			logger := slog.Default()

			if feedURL == "" {
				feedURL = cfg.Feed.URL
			}
			if !cmd.Flags().Changed("interval") {
				interval = cfg.Feed.Interval.Duration
			}

			poller := feed.NewPoller(feed.NewClient(feedURL, cfg.Feed.Timeout.Duration))
			poller.SetLogger(logger)

			loop := follow.New(poller, follow.FixedPosition(pos), engine, interval)
			loop.SetLogger(logger)
			loop.AddSink(func(ctx context.Context, route *navigator.Route) error {
				frame := engine.Frame(route)
				if jsonOut {
					return printJSON(frame)
				}
				fmt.Fprintf(ui.Out, "%s %s\n", ui.Subtle.Sprint(time.Now().Format(time.TimeOnly)),
					ui.Route(route.Path.Names(), cfg.Graph.WaterPrefix))
				return nil
			})

			if cfg.History.Enabled {
				journal, err := history.Open(cfg.History.Path)
				if err != nil {
					return err
				}
				defer journal.Close()
				loop.SetJournal(journal)
			}

			var watcher *watch.Watcher
			if cfg.Watch.Enabled {
				watcher, err = watch.New(cfg.Graph.Path, cfg.Watch.Debounce.Duration)
				if err != nil {
					return err
				}
				watcher.SetLogger(logger)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("following goal feed",
				slog.String("feed", feedURL),
				slog.Duration("interval", interval),
				slog.Bool("watch", watcher != nil))

			return follow.Supervise(ctx, loop, watcher, func() error {
				return engine.LoadGraph(cfg.Graph.Path)
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Query position x,y,z")
	cmd.Flags().StringVar(&feedURL, "feed", "", "Goal feed URL (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", follow.DefaultInterval, "Time between cycles")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}
