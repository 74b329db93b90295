package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"

	"retrobell/input"
)

// ConsoleWorker drives the simulated hook and rotary lines from stdin,
// standing in for the real handset. "dial 102" replays the electrical
// pattern a rotary dial would produce, pulse timing included, so the
// whole decode path is exercised rather than bypassed.
type ConsoleWorker struct {
	log    *slog.Logger
	hook   *input.SimLine
	pulse  *input.SimLine
	active *input.SimLine
}

func NewConsoleWorker(log *slog.Logger, hook, pulse, active *input.SimLine) *ConsoleWorker {
	return &ConsoleWorker{log: log, hook: hook, pulse: pulse, active: active}
}

func (w *ConsoleWorker) Run(ctx context.Context) error {
	color.New(color.FgCyan).Println("Console handset ready. Commands: lift | hang | dial <number> | help")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				// Stdin closed; the phone keeps running headless.
				return nil
			}
			w.handle(ctx, strings.TrimSpace(line))
		}
	}
}

func (w *ConsoleWorker) handle(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "lift":
		w.hook.Set(true)
		color.Green.Println("Handset lifted")
	case "hang":
		w.hook.Set(false)
		color.Green.Println("Handset on the cradle")
	case "dial":
		if len(fields) != 2 {
			color.Red.Println("Usage: dial <number>")
			return
		}
		w.dial(ctx, fields[1])
	case "help":
		fmt.Println("lift          take the handset off the hook")
		fmt.Println("hang          put the handset back")
		fmt.Println("dial <number> wind the rotary dial digit by digit")
	default:
		color.Red.Printf("Unknown command %q, try help\n", fields[0])
	}
}

// dial replays each digit at roughly ten pulses per second, like the
// spring-driven dial it imitates.
func (w *ConsoleWorker) dial(ctx context.Context, number string) {
	for _, r := range number {
		if r < '0' || r > '9' {
			color.Red.Printf("Not a digit: %q\n", r)
			return
		}
		pulses := int(r - '0')
		if pulses == 0 {
			pulses = 10
		}

		w.active.Set(false)
		if !sleep(ctx, 100*time.Millisecond) {
			return
		}
		for i := 0; i < pulses; i++ {
			w.pulse.Set(false)
			if !sleep(ctx, 40*time.Millisecond) {
				return
			}
			w.pulse.Set(true)
			if !sleep(ctx, 60*time.Millisecond) {
				return
			}
		}
		w.active.Set(true)
		color.Gray.Printf("Dialed %c\n", r)
		if !sleep(ctx, 300*time.Millisecond) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
