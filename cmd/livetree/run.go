// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cogentcore.org/livetree/config"
	"cogentcore.org/livetree/tree"
)

type runOptions struct {
	frames  int
	delta   float64
	fps     int
	metrics string
	watch   bool
}

func newRunCmd(a *app) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <scene>",
		Short: "Run the frame loop of a scene",
		Long: `Run loads the scene into a live tree and runs its frame loop until the
tree quits, the given number of frames has run, or the process is
interrupted. The tree is then finished, destroying all of its nodes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.run(ctx, cmd, args[0], o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.frames, "frames", 0, "number of frames to run, or 0 to run until the tree quits")
	f.Float64Var(&o.delta, "delta", 0, "fixed frame delta in seconds, or 0 to use wall time")
	f.IntVar(&o.fps, "fps", 60, "frames per second when using wall time, or 0 for no limit")
	f.StringVar(&o.metrics, "metrics", "", "address to serve Prometheus metrics on (eg: :9090)")
	f.BoolVar(&o.watch, "watch", false, "reload the settings file when it changes")
	return cmd
}

func (a *app) run(ctx context.Context, cmd *cobra.Command, file string, o *runOptions) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	tr, err := a.load(file, tree.WithMetrics(tree.NewMetrics(reg)))
	if err != nil {
		return err
	}
	defer tr.Finish()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		err := tr.Run(ctx, a.deltaSource(o), o.frames)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if o.metrics != "" {
		srv := &http.Server{
			Addr:    o.metrics,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		g.Go(func() error {
			slog.Info("serving metrics", "addr", o.metrics)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer scancel()
			return srv.Shutdown(sctx)
		})
	}
	if o.watch && a.settingsFile != "" {
		g.Go(func() error {
			return config.Watch(ctx, a.settingsFile, func(s *config.Settings) {
				slog.Info("reloaded settings", "file", a.settingsFile)
				tr.CallDeferred(func() { tr.SetSettings(s) })
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ran %d frames of %s with %d nodes\n", tr.Frame(), file, tr.NodeCount())
	return nil
}

// deltaSource returns the source of frame deltas for the given options.
func (a *app) deltaSource(o *runOptions) tree.DeltaSource {
	if o.delta > 0 {
		return tree.FixedDelta(o.delta)
	}
	if o.fps <= 0 {
		return &tree.Clock{}
	}
	return &pacedClock{interval: time.Second / time.Duration(o.fps)}
}

// pacedClock is a [tree.Clock] that waits until at least interval has
// passed since the previous frame.
type pacedClock struct {
	tree.Clock
	interval time.Duration
	next     time.Time
}

func (c *pacedClock) Delta() float64 {
	if !c.next.IsZero() {
		time.Sleep(time.Until(c.next))
	}
	c.next = time.Now().Add(c.interval)
	return c.Clock.Delta()
}
