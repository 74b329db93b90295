package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"retrobell/domain"
	"retrobell/repositories"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	LimitCalls     int    `envconfig:"LIMIT_CALLS" default:"50"`
	Colours        bool   `envconfig:"COLOURS" default:"true"`
}

// callog prints the phone's call history. It opens the store read-only
// with the lock guard bypassed, so it works next to a running phone.
func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repository := repositories.NewCallLogRepository(db, logs.GetLoggerFromString("ERROR"), &config.LimitCalls)
	calls, err := repository.GetCalls()
	if err != nil {
		log.Fatalf("Failed to read call history: %v", err)
	}
	if len(calls) == 0 {
		fmt.Println("No calls recorded yet.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"When", "Peer", "Direction", "Duration", "Outcome"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, row := range lo.Map(calls, func(c domain.CallRecord, _ int) []string {
		return []string{
			c.StartedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", c.Peer),
			string(c.Direction),
			c.EndedAt.Sub(c.StartedAt).Round(time.Second).String(),
			renderOutcome(c.Outcome, config.Colours),
		}
	}) {
		table.Append(row)
	}
	table.Render()
}

func renderOutcome(outcome domain.CallOutcome, colours bool) string {
	if !colours {
		return string(outcome)
	}
	switch outcome {
	case domain.OutcomeCompleted:
		return color.Green.Render(string(outcome))
	case domain.OutcomeBusy, domain.OutcomeRejected:
		return color.Yellow.Render(string(outcome))
	case domain.OutcomeFailed, domain.OutcomeMissed, domain.OutcomeCanceled:
		return color.Red.Render(string(outcome))
	default:
		return string(outcome)
	}
}
