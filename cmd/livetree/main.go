// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command livetree loads scene files into live trees, runs their frame
// loop, and inspects them.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cogentcore.org/livetree/base/logx"
	"cogentcore.org/livetree/config"
	_ "cogentcore.org/livetree/nodes"
	"cogentcore.org/livetree/scenefile"
	"cogentcore.org/livetree/tree"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the state shared by the commands.
type app struct {
	dir          string
	settingsFile string
	logLevel     string

	settings *config.Settings
	loader   *scenefile.Loader
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "livetree",
		Short:         "livetree runs and inspects live scene trees",
		Long:          `livetree loads YAML or TOML scene files into live trees, runs their frame loop, and prints or searches them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.dir, "dir", ".", "directory that scene files and instances are read from")
	pf.StringVar(&a.settingsFile, "settings", "", "TOML or YAML settings file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, or error), overriding the settings")

	cmd.AddCommand(newRunCmd(a), newPrintCmd(a), newFindCmd(a), newGetCmd(a))
	return cmd
}

// setup loads the settings and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	a.settings = config.Default()
	if a.settingsFile != "" {
		s, err := config.Open(a.settingsFile)
		if err != nil {
			return err
		}
		a.settings = s
	}
	level := a.settings.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	lv, err := logx.ParseLevel(level)
	if err != nil {
		return err
	}
	logx.UserLevel.Set(lv)
	slog.SetDefault(slog.New(logx.NewHandler(cmd.ErrOrStderr(), nil)))
	a.loader = scenefile.NewLoader(os.DirFS(a.dir))
	return nil
}

// load loads the given scene file into a new tree.
func (a *app) load(file string, opts ...tree.Option) (*tree.Tree, error) {
	root, err := a.loader.Load(file)
	if err != nil {
		return nil, err
	}
	opts = append([]tree.Option{
		tree.WithSettings(a.settings),
		tree.WithFactory(a.loader),
		tree.WithLogger(slog.Default()),
	}, opts...)
	return tree.NewTree(root, opts...)
}
