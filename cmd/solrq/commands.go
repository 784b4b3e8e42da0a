package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/solrq"
	"github.com/kailas-cloud/solrq/internal/version"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Run a query and print the result as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "q", Usage: "Query string", Value: solrq.All.String()},
			&cli.IntFlag{Name: "rows", Usage: "Maximum number of documents"},
			&cli.IntFlag{Name: "start", Usage: "Offset of the first document"},
			&cli.StringSliceFlag{Name: "sort", Usage: "Sort key as field[:asc|desc]; repeatable"},
			&cli.StringSliceFlag{Name: "fl", Usage: "Field to return; repeatable"},
			&cli.StringSliceFlag{Name: "facet-field", Usage: "Field to facet on; repeatable"},
			&cli.StringSliceFlag{Name: "facet-query", Usage: "Query to count; repeatable"},
			&cli.StringSliceFlag{Name: "fq", Usage: "Filter query; repeatable"},
			&cli.StringSliceFlag{Name: "hl-fl", Usage: "Field to highlight; repeatable"},
			&cli.StringFlag{Name: "unique-key", Usage: "Unique key field", Value: "id"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Print the encoded parameters instead of sending them"},
		},
		Action: runQuery,
	}
}

func pingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers its ping handler",
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := newClient(ctx, c)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			_, _ = fmt.Fprintln(c.Root().Writer, "OK")
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, c *cli.Command) error {
			_, _ = fmt.Fprintln(c.Root().Writer, version.String())
			return nil
		},
	}
}

func newClient(ctx context.Context, c *cli.Command) (*solrq.Client, error) {
	opts := []solrq.Option{
		solrq.WithURLs(c.StringSlice("url")...),
		solrq.WithCore(c.String("core")),
		solrq.WithTimeout(c.Duration("timeout")),
	}
	if c.Bool("debug") {
		opts = append(opts, solrq.WithLogger(slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)))
	}
	client, err := solrq.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func runQuery(ctx context.Context, c *cli.Command) error {
	opts, err := buildOptions(c)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, c)
	if err != nil {
		return err
	}
	defer client.Close()

	idx, err := solrq.NewIndex[map[string]any](client, solrq.WithUniqueKey(c.String("unique-key")))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	q := solrq.NewQuery(c.String("q"))
	out := c.Root().Writer

	if c.Bool("dry-run") {
		for k, v := range idx.Params(q, opts).All() {
			_, _ = fmt.Fprintf(out, "%s=%s\n", k, v)
		}
		return nil
	}

	res, err := idx.Query(ctx, q, opts)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(toOutput(res))
}

// buildOptions maps command flags onto query options. Facets keep flag
// order within each kind: field facets first, then query facets.
func buildOptions(c *cli.Command) (*solrq.QueryOptions, error) {
	opts := &solrq.QueryOptions{
		Fields: c.StringSlice("fl"),
	}
	if c.IsSet("rows") {
		opts.Rows = solrq.Int(c.Int("rows"))
	}
	if c.IsSet("start") {
		opts.Start = solrq.Int(c.Int("start"))
	}

	for _, s := range c.StringSlice("sort") {
		so, err := parseSort(s)
		if err != nil {
			return nil, err
		}
		opts.OrderBy = append(opts.OrderBy, so)
	}

	for _, f := range c.StringSlice("facet-field") {
		opts.FacetQueries = append(opts.FacetQueries, solrq.FacetField(f))
	}
	for _, fq := range c.StringSlice("facet-query") {
		opts.FacetQueries = append(opts.FacetQueries, solrq.FacetOn(solrq.NewQuery(fq)))
	}

	for _, fq := range c.StringSlice("fq") {
		opts.FilterQueries = append(opts.FilterQueries, solrq.NewQuery(fq))
	}

	if hl := c.StringSlice("hl-fl"); len(hl) > 0 {
		opts.Highlight = &solrq.HighlightingParameters{Fields: hl}
	}
	return opts, nil
}

func parseSort(s string) (solrq.SortOrder, error) {
	field, dir, _ := strings.Cut(s, ":")
	if field == "" {
		return solrq.SortOrder{}, fmt.Errorf("invalid sort %q: field is required", s)
	}
	switch order := solrq.Order(strings.ToLower(dir)); order {
	case "", solrq.Asc, solrq.Desc:
		return solrq.Sort(field, order), nil
	default:
		return solrq.SortOrder{}, fmt.Errorf("invalid sort %q: direction must be asc or desc", s)
	}
}

type output struct {
	NumFound     int                           `json:"num_found"`
	Start        int                           `json:"start"`
	QTime        int                           `json:"qtime"`
	Docs         []map[string]any              `json:"docs"`
	FacetFields  map[string][]solrq.FacetCount `json:"facet_fields,omitempty"`
	FacetQueries map[string]int                `json:"facet_queries,omitempty"`
	Highlighting map[string]solrq.Snippets     `json:"highlighting,omitempty"`
}

func toOutput(res *solrq.ResultSet[map[string]any]) output {
	return output{
		NumFound:     res.NumFound,
		Start:        res.Start,
		QTime:        res.QTime,
		Docs:         res.Documents,
		FacetFields:  res.FacetFields,
		FacetQueries: res.FacetQueries,
		Highlighting: res.Highlights,
	}
}
