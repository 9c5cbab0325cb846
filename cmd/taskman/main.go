package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Sakshi-Pise24/task-manager/internal/app"
	"github.com/Sakshi-Pise24/task-manager/internal/config"
	"github.com/Sakshi-Pise24/task-manager/internal/logging"
	"github.com/Sakshi-Pise24/task-manager/pkg/kv"
	"github.com/Sakshi-Pise24/task-manager/pkg/persist"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	tea "github.com/charmbracelet/bubbletea"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	check(err)

	logger, closer, err := logging.Open(cfg.Log)
	check(err)
	defer closer.Close()
	logger.Info("starting", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "key", cfg.Storage.Key, "config", cfg.File)

	timeout := time.Duration(cfg.Storage.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	store, err := kv.Open(ctx, cfg.Storage.KV())
	cancel()
	check(err)
	defer store.Close()

	p := persist.InJSON(store, cfg.Storage.Key, persist.WithLogger(logger))

	ctx, cancel = context.WithTimeout(context.Background(), timeout)
	tasks, err := p.Load(ctx)
	cancel()
	if err != nil {
		logger.Warn("could not load saved tasks, starting empty", "err", err)
		tasks = nil
	}
	logger.Info("loaded tasks", "count", len(tasks))

	// config was validated by Load
	category, _ := task.ParseCategory(cfg.UI.DefaultCategory)
	priority, _ := task.ParsePriority(cfg.UI.DefaultPriority)
	sortMode, _ := task.ParseSortMode(cfg.UI.DefaultSort)

	a := app.New(task.NewStore(time.Now, tasks...), persist.NewSaver(p), app.Options{
		Log:            logger,
		Now:            time.Now,
		Category:       category,
		Priority:       priority,
		Sort:           sortMode,
		NoticeDuration: time.Duration(cfg.UI.NotificationSeconds) * time.Second,
		SaveTimeout:    timeout,
	})

	_, err = tea.NewProgram(a, tea.WithAltScreen()).Run()
	check(err)
}
