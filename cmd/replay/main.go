package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"snakepit/internal/journal"
)

func main() {
	var path = flag.String("journal", "", "path to a .jsonl.zst protocol journal")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -journal")
		os.Exit(2)
	}

	counts := make(map[string]int)
	var first, last time.Time
	total := 0
	err := journal.Read(*path, func(e journal.Entry) error {
		counts[e.Dir+" "+e.Type]++
		if first.IsZero() || e.Time.Before(first) {
			first = e.Time
		}
		if e.Time.After(last) {
			last = e.Time
		}
		total++
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "read journal:", err)
		os.Exit(1)
	}

	fmt.Printf("%d entries spanning %s\n", total, last.Sub(first).Round(time.Second))
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%8d  %s\n", counts[k], k)
	}
}
