package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"retrobell/domain"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	Peer      string
	Direction string
	Outcome   string
	Started   string
	Duration  string
}

type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves the call history straight out of Badger on an
// HTML page, for poking at a running phone from a browser. It never
// blocks the caller.
func StartDebugServer(db *badger.DB, port int, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "call:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, callMapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

func callMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Peer:      "--------",
		Direction: "-",
		Outcome:   "-",
		Started:   "--:--:--",
		Duration:  "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	if parts := strings.Split(key, ":"); len(parts) >= 2 {
		if tsNano, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			row.Started = time.Unix(0, tsNano).Format("15:04:05")
		}
	}

	var rec domain.CallRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return row
	}
	row.Peer = strconv.Itoa(rec.Peer)
	row.Direction = string(rec.Direction)
	row.Outcome = string(rec.Outcome)
	row.Started = rec.StartedAt.Format("15:04:05")
	row.Duration = rec.EndedAt.Sub(rec.StartedAt).Round(time.Second).String()
	return row
}
