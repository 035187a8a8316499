package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

// filterFlags holds the sidebar filters as command-line flags.
type filterFlags struct {
	group  string
	height string
	weight string
	life   string
	breeds []string

	// includeUnknown leaves unset ranges inactive.
	includeUnknown bool
}

func (ff *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&ff.group, "group", filter.AllGroups, "breed group to keep ('All' keeps every group)")
	fs.StringVar(&ff.height, "height", "", "height range in inches, lo:hi")
	fs.StringVar(&ff.weight, "weight", "", "weight range in pounds, lo:hi")
	fs.StringVar(&ff.life, "life", "", "life expectancy range in years, lo:hi")
	fs.StringArrayVar(&ff.breeds, "breed", nil, "breed to keep (repeatable)")
	fs.BoolVar(&ff.includeUnknown, "include-unknown", false, "keep breeds with missing values when their range is not set")
}

// criteria converts the flags. Unset ranges default to the dataset's slider
// bounds unless --include-unknown is given.
func (ff *filterFlags) criteria(ds *dataset.Dataset) (filter.Criteria, error) {
	c := filter.Criteria{Group: ff.group, Breeds: ff.breeds}
	for f, raw := range map[filter.Field]string{
		filter.Height:         ff.height,
		filter.Weight:         ff.weight,
		filter.LifeExpectancy: ff.life,
	} {
		if raw == "" {
			continue
		}
		r, err := filter.ParseRange(raw)
		if err != nil {
			return c, fmt.Errorf("--%s: %w", flagName(f), err)
		}
		c.SetRange(f, r)
	}
	if !ff.includeUnknown {
		c.FillRanges(filter.AllBounds(ds))
	}
	return c, nil
}

func flagName(f filter.Field) string {
	switch f {
	case filter.Height:
		return "height"
	case filter.Weight:
		return "weight"
	default:
		return "life"
	}
}
