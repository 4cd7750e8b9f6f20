package quality

import (
	"testing"

	"tsdash/internal/model"
)

func f(v float64) *float64 { return &v }

func TestClassify_Thresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		latency *float64
		want    model.Quality
	}{
		{f(0), model.QualityExcellent},
		{f(19.9), model.QualityExcellent},
		{f(20), model.QualityGood},
		{f(49.9), model.QualityGood},
		{f(50), model.QualityFair},
		{f(99.9), model.QualityFair},
		{f(100), model.QualityPoor},
		{f(450), model.QualityPoor},
		{nil, model.QualityUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.latency); got != tc.want {
			if tc.latency != nil {
				t.Fatalf("Classify(%.1f)=%s want %s", *tc.latency, got, tc.want)
			}
			t.Fatalf("Classify(nil)=%s want %s", got, tc.want)
		}
	}
}
