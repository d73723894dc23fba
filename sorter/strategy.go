package sorter

import (
	"fmt"
	"strings"

	"github.com/benz9527/xseq/lib/algo"
	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

type Strategy uint8

const (
	// Insertion is the binary insertion sort, equal elements may
	// be reordered.
	Insertion Strategy = iota
	// StableInsertion keeps the input order of equal elements.
	StableInsertion
	// Quick partitions around the first element.
	Quick
	_strategyMax
)

func (st Strategy) String() string {
	switch st {
	case Insertion:
		return "insertion"
	case StableInsertion:
		return "stable"
	case Quick:
		return "quick"
	default:
	}
	return "unknown"
}

func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "insertion":
		return Insertion, nil
	case "stable", "stable-insertion":
		return StableInsertion, nil
	case "quick":
		return Quick, nil
	default:
	}
	return _strategyMax, infra.NewErrorStack(fmt.Sprintf("[sorter] unknown strategy %q", name))
}

func sortWith[E any](st Strategy, s seq.Sequence[E], cmp algo.Comparator[E]) seq.Sequence[E] {
	switch st {
	case StableInsertion:
		return algo.StableSortTFunc(s, cmp)
	case Quick:
		return algo.QuickSortFunc(s, cmp)
	case Insertion:
		fallthrough
	default:
	}
	return algo.SortTFunc(s, cmp)
}
