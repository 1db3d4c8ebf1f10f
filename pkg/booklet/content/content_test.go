package content

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

func TestTextPlainText(t *testing.T) {
	p := Paragraph(StyleEvent,
		Plain("1. "),
		Bold("Gig"),
		Plain(" Fri 8:00pm"),
		Break(),
		Plain("Band at Venue"),
	)
	want := "1. Gig Fri 8:00pm\nBand at Venue"
	if got := p.PlainText(); got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func TestRunHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  Run
		want Run
	}{
		{"plain literal", Plain("hello"), Run{Text: "hello"}},
		{"plain format", Plain("%d items", 3), Run{Text: "3 items"}},
		{"bold", Bold("%s", "x"), Run{Text: "x", Bold: true}},
		{"colored", Colored("#ff0000", "meet"), Run{Text: "meet", Color: "#ff0000"}},
		{"break", Break(), Run{Break: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label(""); got != nil {
		t.Errorf("Label(\"\") = %v, want nil", got)
	}
	got := Label("Weather")
	want := []Block{Text{Style: StyleHeading, Runs: []Run{{Text: "Weather", Bold: true}}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Label mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect(t *testing.T) {
	ok := ProducerFunc(func(context.Context) ([]Block, error) {
		return []Block{Spacer{Height: 4}}, nil
	})
	failing := ProducerFunc(func(context.Context) ([]Block, error) {
		return []Block{Spacer{}}, stderrors.New("boom")
	})
	panicking := ProducerFunc(func(context.Context) ([]Block, error) {
		panic("nil map")
	})
	coded := ProducerFunc(func(context.Context) ([]Block, error) {
		return nil, errors.New(errors.ErrCodeContentFetch, "already wrapped")
	})

	tests := []struct {
		name    string
		p       Producer
		want    []Block
		wantErr bool
	}{
		{"success", ok, []Block{Spacer{Height: 4}}, false},
		{"error drops blocks", failing, nil, true},
		{"panic recovered", panicking, nil, true},
		{"coded error kept", coded, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(context.Background(), "test", tt.p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Collect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeContentFetch) {
				t.Errorf("error %v is not CONTENT_FETCH", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("blocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	p := ProducerFunc(func(context.Context) ([]Block, error) {
		called = true
		return nil, nil
	})
	if _, err := Collect(ctx, "test", p); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if called {
		t.Error("producer ran with a cancelled context")
	}
}
