// Package main provides the mojo CLI: inspect and score tree-ensemble model
// containers.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/mojo-runtime/mojo/internal/config"
	"github.com/mojo-runtime/mojo/internal/logger"
	"github.com/mojo-runtime/mojo/mojo"
)

const version = "v0.1.0"

// redisScheme selects the Redis blob store: "redis:<prefix>".
const redisScheme = "redis:"

// env is what every command gets to work with.
type env struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *mojo.Metrics
	stdin   io.Reader
	stdout  io.Writer
}

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

// commands is the full command table, in display order.
var commands []command

func init() {
	commands = []command{
		{"version", "version", "Show version", runVersion},
		{"commands", "commands", "List commands", runCommands},
		{"algorithms", "algorithms", "List supported algorithms", runAlgorithms},
		{"inspect", "inspect <model>", "Print the model descriptor as YAML", runInspect},
		{"score", "score <model> [v1,v2,...]...", "Score rows given as arguments or CSV lines on stdin", runScore},
		{"list", "list <model>...", "Load models and list them by handle", runList},
	}
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	_ = logger.Init()
	logger.SetLevel(cfg.Level())

	registry := prometheus.NewRegistry()
	e := &env{
		cfg: cfg,
		log: logger.Named("mojo"),
		metrics: mojo.NewMetrics(
			mojo.WithMetricsEnabled(cfg.MetricsEnabled),
			mojo.WithMetricsRegistry(registry),
		),
		stdin:  stdin,
		stdout: stdout,
	}

	if len(args) == 0 {
		printUsage(stdout)
		return 2
	}
	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}
	code := 0
	if err := cmd.run(ctx, e, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage: mojo %s\n", cmd.usage)
			return 2
		}
		fmt.Fprintf(stderr, "%s: %v\n", cmd.name, err)
		code = 1
	}
	if cfg.MetricsEnabled {
		dumpMetrics(stderr, registry)
	}
	return code
}

// dumpMetrics writes the gathered metrics in the Prometheus text format.
func dumpMetrics(w io.Writer, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		fmt.Fprintf(w, "metrics: %v\n", err)
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			fmt.Fprintf(w, "metrics: %v\n", err)
			return
		}
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "mojo %s - tree-ensemble model runtime\n\n", version)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-32s %s\n", c.usage, c.summary)
	}
}

func runVersion(_ context.Context, e *env, _ []string) error {
	fmt.Fprintf(e.stdout, "mojo %s\n", version)
	return nil
}

func runCommands(_ context.Context, e *env, _ []string) error {
	for _, c := range commands {
		fmt.Fprintf(e.stdout, "%s\t%s\n", c.name, c.summary)
	}
	return nil
}

func runAlgorithms(_ context.Context, e *env, _ []string) error {
	for _, a := range mojo.Algorithms() {
		fmt.Fprintln(e.stdout, a)
	}
	return nil
}

// open loads a model from a path or a "redis:<prefix>" reference.
func open(ctx context.Context, e *env, ref string) (*mojo.Model, error) {
	opts := []mojo.Option{
		mojo.WithConcurrency(e.cfg.LoadConcurrency),
		mojo.WithLogger(e.log),
		mojo.WithMetrics(e.metrics),
	}
	if prefix, ok := strings.CutPrefix(ref, redisScheme); ok {
		if prefix == "" {
			prefix = e.cfg.RedisPrefix
		}
		return mojo.OpenRedis(ctx, e.cfg.RedisAddr, e.cfg.RedisDB, prefix, opts...)
	}
	return mojo.Open(ctx, ref, opts...)
}

type inspectView struct {
	mojo.Descriptor `yaml:",inline"`

	Endianness       string   `yaml:"endianness"`
	Variant          string   `yaml:"variant"`
	NTrees           int      `yaml:"n_trees"`
	NTreesPerClass   int      `yaml:"n_trees_per_class"`
	EffectiveClasses int      `yaml:"effective_n_classes,omitempty"`
	Distribution     string   `yaml:"distribution,omitempty"`
	InitF            *float64 `yaml:"init_f,omitempty"`
}

func runInspect(ctx context.Context, e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	m, err := open(ctx, e, args[0])
	if err != nil {
		return err
	}

	v := inspectView{
		Descriptor:     *m.Descriptor,
		Endianness:     m.Endianness(),
		Variant:        m.Variant.String(),
		NTrees:         m.NTrees,
		NTreesPerClass: m.NTreesPerClass,
	}
	switch m.Variant {
	case mojo.VariantBagged:
		v.EffectiveClasses = m.EffectiveClasses
	case mojo.VariantBoosted:
		v.Distribution = m.Family.String()
		v.InitF = &m.InitF
	}

	enc := yaml.NewEncoder(e.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func runList(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	store := mojo.NewRegistry()
	for _, ref := range args {
		m, err := open(ctx, e, ref)
		if err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		store.Add(ref, m)
	}
	for _, entry := range store.List() {
		m := entry.Model
		fmt.Fprintf(e.stdout, "%s\t%s\t%s\t%s\t%d\n", entry.ID, entry.Name, m.Algorithm, m.Category, m.NTrees)
	}
	return nil
}

func runScore(ctx context.Context, e *env, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	m, err := open(ctx, e, args[0])
	if err != nil {
		return err
	}
	s := mojo.NewScorer(m, e.metrics)

	lines := args[1:]
	if len(lines) == 0 {
		sc := bufio.NewScanner(e.stdin)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			lines = append(lines, line)
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}

	rows := make([][]float64, len(lines))
	for i, line := range lines {
		if rows[i], err = parseLine(m, line); err != nil {
			return err
		}
	}
	out, err := s.PredictBatch(rows)
	if err != nil {
		return err
	}
	for _, preds := range out {
		printPreds(e.stdout, m, preds)
	}
	return nil
}

func parseLine(m *mojo.Model, line string) ([]float64, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	cells, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse row %q: %w", line, err)
	}
	return mojo.ParseRow(m.Descriptor, cells)
}

func printPreds(w io.Writer, m *mojo.Model, preds []float64) {
	if !m.IsClassifier() {
		fmt.Fprintln(w, strconv.FormatFloat(preds[0], 'g', -1, 64))
		return
	}
	out := make([]string, 0, len(preds))
	out = append(out, mojo.Label(m.Descriptor, int(preds[0])))
	for _, p := range preds[1:] {
		out = append(out, strconv.FormatFloat(p, 'g', 6, 64))
	}
	fmt.Fprintln(w, strings.Join(out, ","))
}
