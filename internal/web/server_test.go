package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/KaramelBytes/breedlens/internal/charts"
	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

func testDataset() *dataset.Dataset {
	k := dataset.Known
	return dataset.New("dogs.csv", []dataset.Record{
		{Breed: "Akita", BreedGroup: "Working", Height: k(26), Weight: k(100), LifeExpectancy: k(11.5)},
		{Breed: "Beagle", BreedGroup: "Hound", Height: k(14), Weight: k(25), LifeExpectancy: k(13.5)},
		{Breed: "Boxer", BreedGroup: "Working", Height: k(23.5), Weight: k(65), LifeExpectancy: k(11)},
		{Breed: "Mystery", BreedGroup: "Misc", Height: k(20), Weight: dataset.Absent(), LifeExpectancy: dataset.Absent()},
	})
}

func newTestServer(t *testing.T, opt Options) *httptest.Server {
	t.Helper()
	if opt.ChartSize.Width == 0 {
		opt.ChartSize = charts.Size{Width: 400, Height: 240}
	}
	s, err := New(testDataset(), opt, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(b)
}

func TestIndexRendersCounts(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts, "/?group=Working")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{
		"<title>Dog Breed Insights</title>",
		"Total Breeds<b>4</b>",
		"Filtered Breeds<b>2</b>",
		"<td>Akita</td>",
		"/charts/box.png?group=Working",
		"Comparative Analysis",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestIndexDefaultsToSliderBounds(t *testing.T) {
	ts := newTestServer(t, Options{})
	_, body := get(t, ts, "/")
	for _, want := range []string{"Total Breeds<b>4</b>", "Filtered Breeds<b>3</b>", `name="life_min" min="11" max="14" placeholder="11" value=""`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
	if strings.Contains(body, "<td>Mystery</td>") {
		t.Fatalf("record without weight listed under default ranges")
	}

	_, body = get(t, ts, "/?unknown=1")
	if !strings.Contains(body, "Filtered Breeds<b>4</b>") || !strings.Contains(body, "<td>Mystery</td>") {
		t.Fatalf("unknown=1 should keep every record")
	}
	if !strings.Contains(body, `value="1" checked`) {
		t.Fatalf("unknown checkbox not checked")
	}

	_, body = get(t, ts, "/?life_min=12")
	if !strings.Contains(body, `name="life_min" min="11" max="14" placeholder="11" value="12"`) {
		t.Fatalf("narrowed range not echoed")
	}
}

func TestIndexTruncatesRows(t *testing.T) {
	ts := newTestServer(t, Options{PageSize: 2})
	_, body := get(t, ts, "/")
	if !strings.Contains(body, "Showing the first 2 of 3 rows") {
		t.Fatalf("expected truncation notice")
	}
}

func TestIndexCompareNotice(t *testing.T) {
	ts := newTestServer(t, Options{})
	_, body := get(t, ts, "/?compare=Akita")
	if !strings.Contains(body, filter.ErrCompareNeedsTwo.Error()) {
		t.Fatalf("expected compare notice")
	}
}

func TestInvalidNumberIsBadRequest(t *testing.T) {
	ts := newTestServer(t, Options{})
	for _, path := range []string{"/?height_min=tall", "/download?life_max=x", "/api/records?weight_min=20&weight_max=10"} {
		resp, _ := get(t, ts, path)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", path, resp.StatusCode)
		}
	}
}

func TestDownload(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts, "/download?group=Hound")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="filtered_data.csv"` {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	want := "Breed,Breed Group,Height,Weight,Life Expectancy\nBeagle,Hound,14.0,25.0,13.5\n"
	if body != want {
		t.Fatalf("body = %q", body)
	}
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t, Options{})
	for _, name := range []string{"box", "height", "weight"} {
		resp, body := get(t, ts, "/charts/"+name+".png?group=Working")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d: %s", name, resp.StatusCode, body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("%s: content type = %q", name, ct)
		}
		if !strings.HasPrefix(body, "\x89PNG") {
			t.Fatalf("%s: not a PNG", name)
		}
	}
	if resp, _ := get(t, ts, "/charts/pie.png"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown chart status = %d", resp.StatusCode)
	}
}

type recordsBody struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Records  []struct {
		Breed          string   `json:"breed"`
		LifeExpectancy *float64 `json:"life_expectancy"`
	} `json:"records"`
}

func getRecords(t *testing.T, ts *httptest.Server, path string) recordsBody {
	t.Helper()
	_, body := get(t, ts, path)
	var out recordsBody
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

func TestRecordsAPI(t *testing.T) {
	ts := newTestServer(t, Options{})

	def := getRecords(t, ts, "/api/records")
	if def.Total != 4 || def.Filtered != 3 {
		t.Fatalf("default = %d/%d", def.Filtered, def.Total)
	}
	for _, r := range def.Records {
		if r.LifeExpectancy == nil {
			t.Fatalf("absent life expectancy in %q", r.Breed)
		}
	}

	all := getRecords(t, ts, "/api/records?unknown=1")
	if all.Filtered != 4 {
		t.Fatalf("unknown=1 filtered = %d", all.Filtered)
	}

	// an explicit life range still excludes the record with no life expectancy
	some := getRecords(t, ts, "/api/records?unknown=1&life_min=11.2")
	if some.Filtered != 2 {
		t.Fatalf("filtered = %d", some.Filtered)
	}
	for _, r := range some.Records {
		if r.LifeExpectancy == nil {
			t.Fatalf("absent life expectancy in %q", r.Breed)
		}
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok\n" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestParseCriteria(t *testing.T) {
	bounds := map[filter.Field]filter.Range{filter.Height: {Min: 14, Max: 26}}

	c, err := ParseCriteria(url.Values{}, bounds)
	if err != nil {
		t.Fatalf("ParseCriteria: %v", err)
	}
	if c.Height == nil || *c.Height != bounds[filter.Height] {
		t.Fatalf("height should default to its bounds: %v", c.Height)
	}
	if c.Weight != nil || c.LifeExpectancy != nil {
		t.Fatalf("ranges without bounds active: %#v", c)
	}

	c, err = ParseCriteria(url.Values{"unknown": {"1"}}, bounds)
	if err != nil {
		t.Fatalf("ParseCriteria: %v", err)
	}
	if c.Height != nil || c.Weight != nil || c.LifeExpectancy != nil {
		t.Fatalf("ranges active with unknown=1: %#v", c)
	}

	if _, err := ParseCriteria(url.Values{"height_min": {"NaN"}}, bounds); err == nil {
		t.Fatalf("expected NaN to be rejected")
	}

	c, err = ParseCriteria(url.Values{"height_min": {"20"}, "breed": {"Akita", " "}, "group": {"Working"}}, bounds)
	if err != nil {
		t.Fatalf("ParseCriteria: %v", err)
	}
	if c.Height == nil || c.Height.Min != 20 || c.Height.Max != 26 {
		t.Fatalf("height = %v", c.Height)
	}
	if len(c.Breeds) != 1 || c.Breeds[0] != "Akita" || c.Group != "Working" {
		t.Fatalf("criteria = %#v", c)
	}

	// no bounds known: the open side is unbounded
	c, err = ParseCriteria(url.Values{"weight_max": {"50"}}, bounds)
	if err != nil {
		t.Fatalf("ParseCriteria: %v", err)
	}
	if c.Weight == nil || c.Weight.Max != 50 || !c.Weight.Contains(dataset.Known(-1e9)) {
		t.Fatalf("weight = %v", c.Weight)
	}
}

func TestNewRejectsNilDataset(t *testing.T) {
	if _, err := New(nil, Options{}, nil); err == nil {
		t.Fatalf("expected error")
	}
}
