package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snakepit/internal/journal"
	"snakepit/internal/server"
	"snakepit/logging"
	"snakepit/logging/sinks"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "http listen address")
		configPath  = flag.String("config", "", "path to tuning yaml (defaults apply when empty)")
		journalPath = flag.String("journal", "", "path to the protocol journal (empty disables)")
		logJSON     = flag.String("log_json", "", "path for the JSONL log sink (empty disables)")
	)
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *journalPath != "" {
		cfg.JournalPath = *journalPath
	}

	named := []logging.NamedSink{{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)}}
	if *logJSON != "" {
		f, err := os.OpenFile(*logJSON, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(f)})
	}
	router := logging.NewRouter(nil, logging.DefaultConfig(), named)
	defer router.Close(context.Background())

	var jw *journal.Writer
	if cfg.JournalPath != "" {
		jw, err = journal.NewWriter(cfg.JournalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer jw.Close()
	}

	hub := server.NewHub(cfg, router, jw)
	stop := make(chan struct{})
	go hub.Run(stop)
	defer close(stop)

	srv := &http.Server{Addr: *addr, Handler: hub.Handler()}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("arena listening on %s (world %.0fx%.0f, %d foods)", *addr, cfg.WorldWidth, cfg.WorldHeight, cfg.MaxFoods)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
