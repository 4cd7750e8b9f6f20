package netdiag

import (
	"context"
	"errors"
	"testing"
	"time"

	"tsdash/internal/model"
)

type fakeSource struct {
	out string
	err error
}

func (f fakeSource) Netcheck(context.Context) (string, error) { return f.out, f.err }

func TestCheck_ParsesLocation(t *testing.T) {
	t.Parallel()

	src := fakeSource{out: "Report:\n\t* Region: Europe\n\t* Country: Germany\n\t* City: Frankfurt\n"}
	c := NewChecker(src, nil, time.Second)
	rep := c.Check(context.Background())
	if rep.Location.City != "Frankfurt" || rep.Location.Region != "Europe" {
		t.Fatalf("loc=%+v", rep.Location)
	}
	if rep.NATType != NATTypeUnknown {
		t.Fatalf("nat=%q", rep.NATType)
	}
}

func TestCheck_SourceFailureDegrades(t *testing.T) {
	t.Parallel()

	c := NewChecker(fakeSource{err: errors.New("offline")}, nil, time.Second)
	rep := c.Check(context.Background())
	// Timezone fallback may still resolve a region; city stays Unknown.
	if rep.Location.City != model.Unknown {
		t.Fatalf("loc=%+v", rep.Location)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if got := classify([]string{"1.2.3.4:1"}); got != NATTypeUnknown {
		t.Fatalf("got=%s", got)
	}
	if got := classify([]string{"1.2.3.4:1", "1.2.3.4:1"}); got != NATTypeConeOrRestricted {
		t.Fatalf("got=%s", got)
	}
	if got := classify([]string{"1.2.3.4:1", "1.2.3.4:2"}); got != NATTypeSymmetric {
		t.Fatalf("got=%s", got)
	}
}
