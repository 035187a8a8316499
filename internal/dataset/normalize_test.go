package dataset

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var measureOpt = cmp.AllowUnexported(Measure{})

func TestExtractAvg(t *testing.T) {
	cases := []struct {
		in   string
		want Measure
	}{
		{"22-25", Known(23.5)},
		{"60-70", Known(65)},
		{" 10 - 13 ", Known(11.5)},
		{"9.5-10.5", Known(10)},
		{"N/A", Absent()},
		{"22", Absent()},
		{"", Absent()},
		{"-5-10", Absent()},
		{"-10", Absent()},
		{"10-", Absent()},
		{"10-12-14", Absent()},
		{"ten-twelve", Absent()},
		{"NaN-4", Absent()},
		{"Inf-4", Absent()},
		{"22-25 inches", Absent()},
	}
	for _, tc := range cases {
		got := ExtractAvg(tc.in)
		if diff := cmp.Diff(tc.want, got, measureOpt); diff != "" {
			t.Errorf("ExtractAvg(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestStripIsOrderIndependent(t *testing.T) {
	in := "60 pounds (male)"
	a := Strip(Strip(in, []string{" (male)"}), []string{" pounds"})
	b := Strip(Strip(in, []string{" pounds"}), []string{" (male)"})
	if a != "60" || b != "60" {
		t.Fatalf("strip results = %q, %q; want both %q", a, b, "60")
	}
	if got := Strip("no decoration", []string{" »", ""}); got != "no decoration" {
		t.Fatalf("absent substring changed value: %q", got)
	}
	if got := Strip("22-25 (TOY) (TOY)", []string{" (TOY)"}); got != "22-25" {
		t.Fatalf("repeated qualifier not removed: %q", got)
	}
}

func TestCleanEndToEnd(t *testing.T) {
	n := NewNormalizer()
	got := n.Clean(RawRecord{
		Breed:          "X",
		BreedGroup:     "Herding »",
		Height:         "22-25 inches (male)",
		Weight:         "60-70 pounds",
		LifeExpectancy: "10-13 years",
	})
	want := Record{
		Breed:          "X",
		BreedGroup:     "Herding",
		Height:         Known(23.5),
		Weight:         Known(65),
		LifeExpectancy: Known(11.5),
	}
	if diff := cmp.Diff(want, got, measureOpt); diff != "" {
		t.Fatalf("Clean mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanDegradesPerField(t *testing.T) {
	got := NewNormalizer().Clean(RawRecord{
		Breed:          "Y",
		BreedGroup:     "Toy",
		Height:         "10 inches",
		Weight:         "4-6 pounds (TOY)",
		LifeExpectancy: "",
	})
	if got.Breed != "Y" || got.BreedGroup != "Toy" {
		t.Fatalf("identity changed: %#v", got)
	}
	if !got.Height.IsAbsent() || !got.LifeExpectancy.IsAbsent() {
		t.Fatalf("expected absent height and life expectancy, got %v / %v", got.Height, got.LifeExpectancy)
	}
	if v, ok := got.Weight.Get(); !ok || v != 5 {
		t.Fatalf("weight = %v, %v; want 5", v, ok)
	}
}

func TestRecleanIsIdempotent(t *testing.T) {
	n := NewNormalizer()
	once := n.CleanAll([]RawRecord{
		{Breed: "A", BreedGroup: "Working »", Height: "24-28 inches", Weight: "70-130 pounds", LifeExpectancy: "10-13 years"},
		{Breed: "B", BreedGroup: "Toy »", Height: "N/A", Weight: "3-7 pounds", LifeExpectancy: "12-15 years"},
	})
	twice := n.Reclean(once)
	if diff := cmp.Diff(once, twice, measureOpt); diff != "" {
		t.Fatalf("second pass changed records (-once +twice):\n%s", diff)
	}
}

func TestDedupe(t *testing.T) {
	rows := [][]string{
		{"Akita", "Working", "24-28"},
		{"Beagle", "Hound", "13-15"},
		{"Akita", "Working", "24-28"},
		{"Akita", "Working", "25-28"},
	}
	got, removed := Dedupe(rows)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	want := [][]string{rows[0], rows[1], rows[3]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Dedupe mismatch (-want +got):\n%s", diff)
	}

	// cell boundaries are part of the key
	got, removed = Dedupe([][]string{{"a,b", "c"}, {"a", "b,c"}})
	if removed != 0 || len(got) != 2 {
		t.Fatalf("distinct rows collapsed: %#v", got)
	}
}

func TestStripRulesMerge(t *testing.T) {
	base := DefaultStripRules()
	merged, err := base.Merge(map[string][]string{"weight": {" lbs"}, " life expectancy ": {" yrs"}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := merged[ColWeight]; len(got) != 4 || got[3] != " lbs" {
		t.Fatalf("weight rules = %#v", got)
	}
	if got := merged[ColLifeExpectancy]; len(got) != 2 || got[1] != " yrs" {
		t.Fatalf("life expectancy rules = %#v", got)
	}
	if len(base[ColWeight]) != 3 {
		t.Fatalf("Merge mutated receiver: %#v", base[ColWeight])
	}

	// Breed is never stripped and unknown columns would be silently ignored
	for _, col := range []string{"Coat", "breed", ""} {
		if _, err := base.Merge(map[string][]string{col: {"x"}}); !errors.Is(err, ErrUnknownColumn) {
			t.Fatalf("Merge(%q) err = %v", col, err)
		}
	}
}
