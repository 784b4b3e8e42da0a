package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "solrq",
		Usage:  "Query a Solr-style search server from the command line",
		Writer: os.Stdout,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "url",
				Usage:   "Server base URL; repeat for replicas",
				Value:   []string{"http://localhost:8983/solr"},
				Sources: cli.EnvVars("SOLRQ_URL"),
			},
			&cli.StringFlag{
				Name:    "core",
				Usage:   "Core (collection) name appended to every URL",
				Sources: cli.EnvVars("SOLRQ_CORE"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
				Value: 10 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			queryCommand(),
			pingCommand(),
			versionCommand(),
		},
	}
}
