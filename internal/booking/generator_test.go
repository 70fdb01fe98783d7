package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGenerateSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := DateOf(time.Now().UTC().AddDate(0, 0, 1))

	res, err := f.svc.GenerateSlots(ctx, f.manager, date, 540, 720, 60)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if res.Created != 3 || res.Skipped != 0 {
		t.Fatalf("result = %+v, want {3 0}", res)
	}

	slots, err := f.repo.ListSlots(ctx, &date, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []Window{{540, 600}, {600, 660}, {660, 720}}
	if len(slots) != len(want) {
		t.Fatalf("stored %d slots, want %d", len(slots), len(want))
	}
	for i, s := range slots {
		if s.Start != want[i].Start || s.End != want[i].End {
			t.Errorf("slot %d = %s–%s, want %s–%s", i, s.Start, s.End, want[i].Start, want[i].End)
		}
		if s.Status != SlotFree {
			t.Errorf("slot %d status = %s, want FREE", i, s.Status)
		}
	}
}

// Re-running the same window creates nothing and reports every candidate
// as skipped.
func TestGenerateSlotsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := DateOf(time.Now().UTC().AddDate(0, 0, 1))

	if _, err := f.svc.GenerateSlots(ctx, f.manager, date, 540, 720, 60); err != nil {
		t.Fatal(err)
	}
	res, err := f.svc.GenerateSlots(ctx, f.manager, date, 540, 720, 60)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 0 || res.Skipped != 3 {
		t.Fatalf("second run = %+v, want {0 3}", res)
	}
}

func TestGenerateSlotsPartialOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := DateOf(time.Now().UTC().AddDate(0, 0, 1))

	if _, err := f.svc.GenerateSlots(ctx, f.manager, date, 600, 660, 60); err != nil {
		t.Fatal(err)
	}
	res, err := f.svc.GenerateSlots(ctx, f.manager, date, 540, 720, 60)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 2 || res.Skipped != 1 {
		t.Fatalf("result = %+v, want {2 1}", res)
	}
}

// An end of 00:00 extends the window to midnight; the last slot keeps the
// wrapped end time.
func TestGenerateSlotsMidnightRollover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := DateOf(time.Now().UTC().AddDate(0, 0, 1))

	res, err := f.svc.GenerateSlots(ctx, f.manager, date, 1380, 0, 60)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("created = %d, want 1", res.Created)
	}

	slots, err := f.repo.ListSlots(ctx, &date, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 {
		t.Fatalf("stored %d slots, want 1", len(slots))
	}
	if slots[0].Start != 1380 || slots[0].End != 0 {
		t.Fatalf("slot = %s–%s, want 23:00–00:00", slots[0].Start, slots[0].End)
	}
}

func TestGenerateSlotsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := DateOf(time.Now().UTC().AddDate(0, 0, 1))

	if _, err := f.svc.GenerateSlots(ctx, f.producer, date, 540, 720, 60); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("producer generating: err = %v, want ErrNotAllowed", err)
	}

	var vErr *ValidationError
	cases := []struct {
		name       string
		start, end TimeOfDay
		step       int
	}{
		{"zero step", 540, 720, 0},
		{"step over a workday", 540, 720, 481},
		{"end before start", 720, 540, 60},
		{"end equals start", 540, 540, 60},
		{"window smaller than step", 540, 570, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.GenerateSlots(ctx, f.manager, date, tc.start, tc.end, tc.step)
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

// Trailing remainder shorter than the step is dropped, not emitted.
func TestGenerateSlotsRemainderDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := DateOf(time.Now().UTC().AddDate(0, 0, 1))

	res, err := f.svc.GenerateSlots(ctx, f.manager, date, 540, 730, 60)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 3 {
		t.Fatalf("created = %d, want 3 full windows", res.Created)
	}
}
