package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-querygraph/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/http"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/logger"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/querygraph"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

var (
	configFile    = flag.String("config", "", "config file, defaults to ./data/config.yaml")
	graphFile     = flag.String("graph", "", "graph file, defaults to graph_path from the config")
	snapsFile     = flag.String("snaps", "./data/snaps.json", "snap request file")
	bidirectional = flag.Bool("bidirectional", true, "add the backward virtual edges, overrides the config when set")
)

func main() {
	flag.Parse()
	config, err := util.ReadConfig(*configFile)
	if err != nil {
		panic(err)
	}
	logger, err := logger.New(config.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "bidirectional" {
			config.Bidirectional = *bidirectional
		}
	})
	path := *graphFile
	if path == "" {
		path = config.GraphPath
	}

	graph, err := da.ReadGraph(path)
	if err != nil {
		panic(err)
	}
	file, err := readRequestFile(*snapsFile)
	if err != nil {
		panic(err)
	}
	requests, err := file.toBuildRequests(graph, config.Bidirectional)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics := querygraph.NewMetrics(reg)
	builder := querygraph.NewBuilder(logger, metrics, config.EqualityTolerance, config.WayIndexWarnDistance)
	alloc := querygraph.NewIDAllocator(da.Index(graph.NumberOfVertices()), da.Index(graph.NumberOfEdges()))

	start := time.Now()
	overlays, err := builder.BuildBatch(ctx, alloc, requests, config.Workers)
	if err != nil {
		panic(err)
	}
	logger.Info("overlays built", zap.Int("requests", len(requests)), zap.Duration("elapsed", time.Since(start)))

	cost := costfunction.NewTimeCostFunction()
	summaries := make([]overlaySummary, 0, len(overlays))
	for _, overlay := range overlays {
		qg, err := querygraph.NewQueryGraph(graph, overlay)
		if err != nil {
			panic(err)
		}
		summaries = append(summaries, summarizeOverlay(qg, cost))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		panic(err)
	}

	if config.MetricsAddr == "" {
		return
	}
	api := http.NewAPI(logger, reg)
	err = api.Run(ctx, http.Config{
		Addr:         config.MetricsAddr,
		RateLimit:    config.MetricsRateLimit,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	if err != nil {
		panic(err)
	}
	logger.Info("metrics server stopped")
}
