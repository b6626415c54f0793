// Command cvrpsolve solves a capacitated vehicle routing instance to proven
// optimality, writes the plan to a solution file and prints a one-line
// summary.
//
//	cvrpsolve [flags] instance.vrp
//
// The solution goes to output/vrp/<stem>.sol unless -output is given.
// With -listen, Prometheus metrics are served on /metrics and the live
// search state on /status while the solver runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/katalvlaran/cvrpbb/bnb"
	"github.com/katalvlaran/cvrpbb/metrics"
	"github.com/katalvlaran/cvrpbb/vrp"
)

var (
	timeout  = flag.Int("timeout", 0, "solver timeout in seconds (0: none)")
	output   = flag.String("output", "", "solution file (default output/vrp/<stem>.sol)")
	config   = flag.String("config", "", "YAML search options")
	workers  = flag.Int("workers", 0, "search workers; overrides the config when > 0")
	strategy = flag.String("strategy", "", "node selection: best-bound or depth-first; overrides the config")
	noSeed   = flag.Bool("noseed", false, "skip the heuristic first plan")
	listen   = flag.String("listen", "", "address to serve /metrics and /status (eg :9090)")
)

type params struct {
	input    string
	output   string
	config   string
	timeout  time.Duration
	workers  int
	strategy string
	noSeed   bool
	listen   string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] instance\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	defer log.Flush()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := params{
		input:    flag.Arg(0),
		output:   *output,
		config:   *config,
		timeout:  time.Duration(*timeout) * time.Second,
		workers:  *workers,
		strategy: *strategy,
		noSeed:   *noSeed,
		listen:   *listen,
	}
	summary, err := run(ctx, p)
	if err != nil {
		log.Errorf("cvrpsolve: %v", err)
		log.Flush()
		os.Exit(1)
	}
	fmt.Println(summary)
}

// run solves p.input and returns the summary line.
func run(ctx context.Context, p params) (string, error) {
	opts, err := loadOptions(p)
	if err != nil {
		return "", err
	}

	f, err := os.Open(p.input)
	if err != nil {
		return "", err
	}
	inst, err := vrp.ReadInstance(f, stem(p.input))
	f.Close()
	if err != nil {
		return "", err
	}

	coll := metrics.New("cvrp", true)
	opts.Search.Observer = coll
	if p.listen != "" {
		srv := &http.Server{Addr: p.listen, Handler: newRouter(coll)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warningf("cvrpsolve: metrics server: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		log.Infof("cvrpsolve: serving metrics on %s", p.listen)
	}

	sol, err := vrp.Solve(ctx, inst, opts)
	if err != nil {
		return "", err
	}

	out := p.output
	if out == "" {
		out = filepath.Join("output", "vrp", stem(p.input)+".sol")
	}
	if err := writeSolution(out, sol); err != nil {
		return "", err
	}
	log.Infof("cvrpsolve: %s (%s) after %d nodes, %d LP solves, %d cuts; wrote %s",
		sol.Status, sol.Stop, sol.Stats.Evaluated, sol.Stats.LPSolves, sol.Stats.Cuts, out)

	return sol.Summary(), nil
}

func loadOptions(p params) (vrp.SolveOptions, error) {
	opts := vrp.DefaultSolveOptions()
	if p.config != "" {
		f, err := os.Open(p.config)
		if err != nil {
			return opts, err
		}
		defer f.Close()
		if opts.Search, err = bnb.LoadOptions(f); err != nil {
			return opts, fmt.Errorf("%s: %w", p.config, err)
		}
	}
	if p.workers > 0 {
		opts.Search.Workers = p.workers
	}
	if p.strategy != "" {
		s, err := bnb.ParseNodeSelection(p.strategy)
		if err != nil {
			return opts, err
		}
		opts.Search.Strategy = s
	}
	if p.timeout > 0 {
		opts.Search.TimeLimit = p.timeout
	}
	opts.NoSeed = p.noSeed

	return opts, opts.Search.Validate()
}

func writeSolution(path string, sol vrp.Solution) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := vrp.WriteSolution(f, sol); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func newRouter(c *metrics.Collector) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", c.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(jsonSnapshot(c.Snapshot())); err != nil {
			log.Warningf("cvrpsolve: /status: %v", err)
		}
	}).Methods(http.MethodGet)

	return r
}

// jsonSnapshot replaces the infinities JSON cannot carry with nulls.
func jsonSnapshot(s metrics.Snapshot) map[string]any {
	finite := func(v float64) any {
		if math.IsInf(v, 0) {
			return nil
		}
		return v
	}

	return map[string]any{
		"nodes":     s.Nodes,
		"lp_solves": s.LPSolves,
		"cuts":      s.Cuts,
		"incumbent": finite(s.Incumbent),
		"bound":     finite(s.Bound),
		"status":    s.Status,
	}
}

func stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
