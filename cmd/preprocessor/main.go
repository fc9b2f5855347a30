package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-querygraph/pkg/logger"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

var (
	osmFile    = flag.String("osm", "./data/map.osm.pbf", "openstreetmap extract (.osm.pbf or .osm xml)")
	outFile    = flag.String("out", "", "output graph file, defaults to graph_path from the config")
	configFile = flag.String("config", "", "config file, defaults to ./data/config.yaml")
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

	out := *outFile
	if out == "" {
		out = config.GraphPath
	}

	osmParser := osmparser.NewOsmParser(logger)
	graph, err := osmParser.Parse(context.Background(), *osmFile)
	if err != nil {
		panic(err)
	}

	err = graph.WriteGraph(out)
	if err != nil {
		panic(err)
	}

	logger.Info("graph written", zap.String("path", out),
		zap.Int("vertices", graph.NumberOfVertices()), zap.Int("edges", graph.NumberOfEdges()))
}
