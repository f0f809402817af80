package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"snakepit/internal/client"
	"snakepit/internal/geom"
	"snakepit/logging"
	"snakepit/logging/sinks"
)

func main() {
	var (
		url      = flag.String("url", "ws://localhost:8080/ws", "ws url")
		apiBase  = flag.String("api", "", "identity/stats service base url (empty fakes identity)")
		name     = flag.String("name", "bot", "display name when identity is faked")
		wanderMs = flag.Int("wander_ms", 1500, "how often the bot picks a new target")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	var identity client.Identity
	if *apiBase != "" {
		id, err := client.ResolveIdentity(context.Background(), nil, *apiBase)
		if err != nil {
			logger.Fatalf("identity: %v", err)
		}
		identity = id
	} else {
		identity = client.Identity{ID: "local", Username: *name}
	}

	router := logging.NewRouter(nil, logging.DefaultConfig(), []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)},
	})
	defer router.Close(context.Background())

	c := client.New(client.DefaultConfig(*url), identity, router)

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	wander := time.NewTicker(time.Duration(*wanderMs) * time.Millisecond)
	defer wander.Stop()

	for {
		select {
		case <-wander.C:
			snap := c.Render()
			c.PointTo(geom.Point{
				X: rng.Float64() * snap.Camera.Viewport.X,
				Y: rng.Float64() * snap.Camera.Viewport.Y,
			})
		case <-stop:
			c.Stop()
			flushStats(logger, *apiBase, c)
			return
		case err := <-runErr:
			if err != nil {
				logger.Printf("session ended: %v", err)
			}
			flushStats(logger, *apiBase, c)
			return
		}
	}
}

// flushStats hands the terminal summary to the stats service, best effort.
func flushStats(logger *log.Logger, apiBase string, c *client.Client) {
	stats := c.Stats()
	logger.Printf("score=%d length=%d food=%d kills=%d survival=%ds",
		stats.Score, stats.Length, stats.FoodEaten, stats.Kills, stats.SurvivalTimeSeconds)
	if apiBase == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.PostStats(ctx, nil, apiBase, stats); err != nil {
		logger.Printf("save stats: %v", err)
	}
}
