package main

import (
	"context"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/benz9527/xseq/observability"
	"github.com/benz9527/xseq/sorter"
)

type options struct {
	strategy string
	order    string
	file     string
	metrics  string
	logLevel string
	poolSize int
	values   []int
	banner   bool
}

func (opts *options) isMetricsEnabled() bool {
	exp, err := observability.ParseMetricsExporter(opts.metrics)
	return err == nil && exp != observability.NoneExporter
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "xseq [values...]",
		Short: "Sort integer sequences by the immutable sequence algorithms",
		Example: `  xseq 4 3 -1 5 2 -2
  xseq --strategy quick --order desc --values=-3,9,1
  xseq --file jobs.yaml --metrics console`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := sorter.ParseStrategy(opts.strategy); err != nil {
				return err
			}
			if _, err := comparatorOf(opts.order); err != nil {
				return err
			}
			_, err := observability.ParseMetricsExporter(opts.metrics)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				jobs []Job
				err  error
			)
			if len(opts.file) > 0 {
				jobs, err = loadJobFile(opts.file)
			} else {
				var values []int
				values, err = parseValues(args)
				jobs = []Job{{Name: "args", Values: append(opts.values, values...)}}
			}
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts, jobs, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.strategy, "strategy", "s", sorter.Insertion.String(), "sort strategy: insertion, stable or quick")
	flags.StringVarP(&opts.order, "order", "o", orderAsc, "sort order: asc or desc")
	flags.StringVarP(&opts.file, "file", "f", "", "YAML job file, the values are ignored if set")
	flags.IntSliceVarP(&opts.values, "values", "v", nil, "comma separated values, sorted together with the args")
	flags.StringVar(&opts.metrics, "metrics", string(observability.NoneExporter), "metrics exporter: none, console or prometheus")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.IntVar(&opts.poolSize, "pool-size", 0, "sorter worker pool size, 0 means twice the GOMAXPROCS")
	flags.BoolVar(&opts.banner, "banner", false, "print the banner to the log output")
	return cmd
}

var numericArg = regexp.MustCompile(`^-\d+(,\s*-?\d+)*,?$`)

// keepNegativeValues moves the positional args behind a "--", so the
// negative numbers are not parsed as shorthand flags. The value of a
// flag stays next to it, "--pool-size -1" is still a flag value.
func keepNegativeValues(flags *pflag.FlagSet, args []string) []string {
	var (
		res        = make([]string, 0, len(args)+1)
		positional = make([]string, 0, len(args))
		takesValue bool
	)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case takesValue:
			res = append(res, arg)
			takesValue = false
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case !strings.HasPrefix(arg, "-") || numericArg.MatchString(arg):
			positional = append(positional, arg)
		default:
			res = append(res, arg)
			takesValue = flagTakesValue(flags, arg)
		}
	}
	if len(positional) > 0 {
		res = append(res, "--")
		res = append(res, positional...)
	}
	return res
}

func flagTakesValue(flags *pflag.FlagSet, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	var f *pflag.Flag
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f = flags.Lookup(name)
	} else if name = strings.TrimPrefix(arg, "-"); len(name) == 1 {
		f = flags.ShorthandLookup(name)
	}
	return f != nil && len(f.NoOptDefVal) == 0
}

func execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	cmd.SetArgs(keepNegativeValues(cmd.Flags(), args))
	return cmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := execute(ctx, newRootCommand(), os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
