package filter_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

func sample() *dataset.Dataset {
	return dataset.New("test", []dataset.Record{
		{Breed: "Akita", BreedGroup: "Working", Height: dataset.Known(26), Weight: dataset.Known(100), LifeExpectancy: dataset.Known(11.5)},
		{Breed: "Mystery", BreedGroup: "Misc", Height: dataset.Known(20), Weight: dataset.Absent(), LifeExpectancy: dataset.Absent()},
		{Breed: "Beagle", BreedGroup: "Hound", Height: dataset.Known(14), Weight: dataset.Known(25), LifeExpectancy: dataset.Known(14)},
		{Breed: "Boxer", BreedGroup: "Working", Height: dataset.Known(23.5), Weight: dataset.Known(65), LifeExpectancy: dataset.Known(11)},
	})
}

func breeds(v filter.View) []string {
	var out []string
	for _, r := range v.Records() {
		out = append(out, r.Breed)
	}
	return out
}

func TestRangeExcludesAbsent(t *testing.T) {
	ds := dataset.New("t", []dataset.Record{
		{Breed: "a", LifeExpectancy: dataset.Known(11.5)},
		{Breed: "b", LifeExpectancy: dataset.Absent()},
		{Breed: "c", LifeExpectancy: dataset.Known(14.0)},
	})
	var c filter.Criteria
	c.SetRange(filter.LifeExpectancy, filter.Range{Min: 12, Max: 15})
	got := breeds(filter.Apply(ds, c))
	if diff := cmp.Diff([]string{"c"}, got); diff != "" {
		t.Fatalf("range filter mismatch (-want +got):\n%s", diff)
	}
}

func TestApply(t *testing.T) {
	ds := sample()
	cases := []struct {
		name string
		c    filter.Criteria
		want []string
	}{
		{"zero criteria keeps everything", filter.Criteria{}, []string{"Akita", "Mystery", "Beagle", "Boxer"}},
		{"All group is no filter", filter.Criteria{Group: filter.AllGroups}, []string{"Akita", "Mystery", "Beagle", "Boxer"}},
		{"group exact match", filter.Criteria{Group: "Working"}, []string{"Akita", "Boxer"}},
		{"group is case sensitive", filter.Criteria{Group: "working"}, nil},
		{"absent visible without range on field", filter.Criteria{Height: &filter.Range{Min: 15, Max: 30}}, []string{"Akita", "Mystery", "Boxer"}},
		{"inclusive bounds", filter.Criteria{Weight: &filter.Range{Min: 25, Max: 65}}, []string{"Beagle", "Boxer"}},
		{"breed allow list", filter.Criteria{Breeds: []string{"Beagle", "Mystery"}}, []string{"Mystery", "Beagle"}},
		{
			"filters are ANDed",
			filter.Criteria{Group: "Working", LifeExpectancy: &filter.Range{Min: 11, Max: 11.2}, Breeds: []string{"Akita", "Boxer"}},
			[]string{"Boxer"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := breeds(filter.Apply(ds, tc.c))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
	if ds.Len() != 4 {
		t.Fatalf("Apply mutated dataset")
	}
}

func TestOptionsAndBounds(t *testing.T) {
	ds := sample()
	if diff := cmp.Diff([]string{"All", "Working", "Misc", "Hound"}, filter.GroupOptions(ds)); diff != "" {
		t.Fatalf("group options (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Akita", "Mystery", "Beagle", "Boxer"}, filter.BreedOptions(ds)); diff != "" {
		t.Fatalf("breed options (-want +got):\n%s", diff)
	}
	r, ok := filter.Bounds(ds, filter.LifeExpectancy)
	if !ok || r.Min != 11 || r.Max != 14 {
		t.Fatalf("life bounds = %v, %v", r, ok)
	}
	r, ok = filter.Bounds(ds, filter.Height)
	if !ok || r.Min != 14 || r.Max != 26 {
		t.Fatalf("height bounds = %v, %v", r, ok)
	}
	empty := dataset.New("e", []dataset.Record{{Breed: "x"}})
	if _, ok := filter.Bounds(empty, filter.Weight); ok {
		t.Fatalf("expected no bounds for all-absent field")
	}
}

func TestFillRangesDropsAbsent(t *testing.T) {
	ds := sample()
	c := filter.Criteria{LifeExpectancy: &filter.Range{Min: 11.5, Max: 20}}
	c.FillRanges(filter.AllBounds(ds))
	if c.LifeExpectancy.Min != 11.5 {
		t.Fatalf("FillRanges overwrote an active range: %v", c.LifeExpectancy)
	}
	if c.Height == nil || *c.Height != (filter.Range{Min: 14, Max: 26}) {
		t.Fatalf("height = %v", c.Height)
	}
	if diff := cmp.Diff([]string{"Akita", "Beagle"}, breeds(filter.Apply(ds, c))); diff != "" {
		t.Fatalf("filled criteria (-want +got):\n%s", diff)
	}

	var full filter.Criteria
	full.FillRanges(filter.AllBounds(ds))
	if diff := cmp.Diff([]string{"Akita", "Beagle", "Boxer"}, breeds(filter.Apply(ds, full))); diff != "" {
		t.Fatalf("slider defaults (-want +got):\n%s", diff)
	}

	empty := dataset.New("e", []dataset.Record{{Breed: "x", Height: dataset.Known(3)}})
	var partial filter.Criteria
	partial.FillRanges(filter.AllBounds(empty))
	if partial.Weight != nil || partial.Height == nil {
		t.Fatalf("partial = %#v", partial)
	}
}

func TestCompare(t *testing.T) {
	ds := sample()
	v, err := filter.Compare(ds, []string{"Boxer", "Akita"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if diff := cmp.Diff([]string{"Akita", "Boxer"}, breeds(v)); diff != "" {
		t.Fatalf("compare (-want +got):\n%s", diff)
	}
	for _, sel := range [][]string{nil, {"Akita"}, {"Akita", "Akita"}, {"Akita", "Boxer", "Beagle"}} {
		if _, err := filter.Compare(ds, sel); !errors.Is(err, filter.ErrCompareNeedsTwo) {
			t.Fatalf("Compare(%v) err = %v", sel, err)
		}
	}
	if diff := cmp.Diff([]string{"Akita", "Mystery"}, filter.DefaultComparison(ds)); diff != "" {
		t.Fatalf("default comparison (-want +got):\n%s", diff)
	}
}

func TestParseRange(t *testing.T) {
	r, err := filter.ParseRange("12:15")
	if err != nil || r != (filter.Range{Min: 12, Max: 15}) {
		t.Fatalf("ParseRange colon = %v, %v", r, err)
	}
	r, err = filter.ParseRange(" 5.5 .. 20 ")
	if err != nil || r != (filter.Range{Min: 5.5, Max: 20}) {
		t.Fatalf("ParseRange dots = %v, %v", r, err)
	}
	for _, bad := range []string{"", "12", "a:3", "3:b", "9:1", "NaN:20", "1:nan"} {
		if _, err := filter.ParseRange(bad); err == nil {
			t.Fatalf("ParseRange(%q) expected error", bad)
		}
	}
}
