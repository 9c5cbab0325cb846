package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/Sakshi-Pise24/task-manager/pkg/kv"
	"github.com/Sakshi-Pise24/task-manager/pkg/persist"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
)

var (
	backend = flag.String("backend", kv.BackendFile, "Storage backend to measure: file, memory, sqlite")
	years   = flag.Int("years", 10, "Years of tasks to generate")
	perDay  = flag.Int("per-day", 30, "Tasks created per day")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "taskman-estimate")
	check(err)
	defer os.RemoveAll(dir)

	path := dir
	if *backend == kv.BackendSQLite {
		path = filepath.Join(dir, "tasks.db")
	}
	store, err := kv.Open(ctx, kv.Options{Backend: *backend, Path: path})
	check(err)
	defer store.Close()
	p := persist.InJSON(store, "tasks")

	total := 365 * *perDay * *years
	tasks := generate(total, time.Now())

	writeTime := measureTime(func() {
		check(p.Save(ctx, tasks))
	})

	var loaded []task.Task
	readTime := measureTime(func() {
		loaded, err = p.Load(ctx)
		check(err)
	})

	blob, err := store.Get(ctx, "tasks")
	check(err)
	fmt.Printf("Tasks: %d years, %d per day (%d total, %d loaded)\n", *years, *perDay, total, len(loaded))
	fmt.Printf("Backend: %s\n", *backend)
	fmt.Printf("Blob size: %dMB\n", len(blob)/1024/1024)
	fmt.Printf("Write time: %dms\n", writeTime.Milliseconds())
	fmt.Printf("Read time: %dms\n", readTime.Milliseconds())
}

// generate builds total tasks spread backwards from now, a third of them
// with a due date.
func generate(total int, now time.Time) []task.Task {
	tasks := make([]task.Task, total)
	for i := range tasks {
		created := now.Add(-time.Duration(total-i) * time.Minute)
		t := task.Task{
			ID:        task.ID(created.UnixMilli()),
			Text:      "task " + randomString(10+rand.Intn(40)),
			Completed: rand.Intn(2) == 0,
			Category:  task.Categories[rand.Intn(len(task.Categories))],
			Priority:  task.Priorities[rand.Intn(len(task.Priorities))],
			CreatedAt: created,
			Starred:   rand.Intn(10) == 0,
		}
		if i%3 == 0 {
			due := created.Add(72 * time.Hour)
			t.DueDate = &due
		}
		tasks[i] = t
	}
	return tasks
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func measureTime(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "

func randomString(l int) string {
	b := make([]byte, l)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
