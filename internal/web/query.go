package web

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/breedlens/internal/filter"
)

// rangeParams maps each numeric field to its query parameter prefix.
var rangeParams = map[filter.Field]string{
	filter.Height:         "height",
	filter.Weight:         "weight",
	filter.LifeExpectancy: "life",
}

// ParseCriteria reads filter criteria from query parameters. A missing bound
// falls back to the field's slider bound from bounds, so every range with
// bounds is active and records without a value are filtered out. With
// unknown=1 a range is active only when one of its bounds is given.
func ParseCriteria(q url.Values, bounds map[filter.Field]filter.Range) (filter.Criteria, error) {
	var c filter.Criteria
	c.Group = strings.TrimSpace(q.Get("group"))
	for _, b := range q["breed"] {
		if b = strings.TrimSpace(b); b != "" {
			c.Breeds = append(c.Breeds, b)
		}
	}
	for _, f := range filter.Fields {
		prefix := rangeParams[f]
		lo, loSet, err := floatParam(q, prefix+"_min")
		if err != nil {
			return c, err
		}
		hi, hiSet, err := floatParam(q, prefix+"_max")
		if err != nil {
			return c, err
		}
		if !loSet && !hiSet {
			continue
		}
		def, ok := bounds[f]
		if !ok {
			def = filter.Range{Min: math.Inf(-1), Max: math.Inf(1)}
		}
		if !loSet {
			lo = def.Min
		}
		if !hiSet {
			hi = def.Max
		}
		if lo > hi {
			return c, fmt.Errorf("%s: minimum %g exceeds maximum %g", f.Label(), lo, hi)
		}
		c.SetRange(f, filter.Range{Min: lo, Max: hi})
	}
	if !includeUnknown(q) {
		c.FillRanges(bounds)
	}
	return c, nil
}

func includeUnknown(q url.Values) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(q.Get("unknown")))
	return err == nil && v
}

func floatParam(q url.Values, key string) (float64, bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false, fmt.Errorf("invalid number for %s: %q", key, raw)
	}
	return v, true, nil
}

// filterQuery returns q without the compare selection, for links that must
// keep the sidebar filters.
func filterQuery(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		if k == "compare" {
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}
