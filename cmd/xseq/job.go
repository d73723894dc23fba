package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/benz9527/xseq/lib/algo"
	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

const (
	orderAsc  = "asc"
	orderDesc = "desc"
)

// Job is one sequence to sort. The blank strategy and order fall
// back to the command flags.
type Job struct {
	Name     string `yaml:"name"`
	Values   []int  `yaml:"values"`
	Strategy string `yaml:"strategy,omitempty"`
	Order    string `yaml:"order,omitempty"`
}

type JobFile struct {
	Jobs []Job `yaml:"jobs"`
}

func loadJobFile(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[xseq] read job file")
	}
	return parseJobs(data)
}

func parseJobs(data []byte) ([]Job, error) {
	jf := JobFile{}
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[xseq] yaml unmarshal")
	}
	if len(jf.Jobs) == 0 {
		return nil, infra.NewErrorStack("[xseq] no jobs in the job file")
	}
	for i := range jf.Jobs {
		if len(strings.TrimSpace(jf.Jobs[i].Name)) == 0 {
			jf.Jobs[i].Name = "job-" + strconv.Itoa(i)
		}
	}
	return jf.Jobs, nil
}

func parseValues(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if len(field) == 0 {
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("[xseq] invalid value %q", field))
			}
			values = append(values, v)
		}
	}
	return values, nil
}

func comparatorOf(order string) (algo.Comparator[seq.Constant[int]], error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", orderAsc:
		return algo.LessValue[int], nil
	case orderDesc:
		return algo.GreaterValue[int], nil
	default:
	}
	return nil, infra.NewErrorStack(fmt.Sprintf("[xseq] unknown order %q", order))
}

func formatValues(s seq.Sequence[seq.Constant[int]]) string {
	return strings.Join(lo.Map(seq.Unwrap(s), func(v int, _ int) string {
		return strconv.Itoa(v)
	}), " ")
}
