package booking

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 570, false},
		{"", 0, true},
		{"noon", 0, true},
		{"-1:00", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %s", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got := TimeOfDay(570).String(); got != "09:30" {
		t.Errorf("String() = %q, want 09:30", got)
	}
	if got := TimeOfDay(0).String(); got != "00:00" {
		t.Errorf("String() = %q, want 00:00", got)
	}
}

func TestTimeOfDayJSON(t *testing.T) {
	var tod TimeOfDay
	if err := json.Unmarshal([]byte(`"14:45"`), &tod); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tod != 885 {
		t.Fatalf("tod = %d, want 885", tod)
	}

	out, err := json.Marshal(tod)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"14:45"` {
		t.Fatalf("marshal = %s, want \"14:45\"", out)
	}

	if err := json.Unmarshal([]byte(`"later"`), &tod); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2026, 3, 10, 23, 45, 0, 0, loc)
	got := DateOf(in)
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf = %s, want %s", got, want)
	}
}

func TestTimeOfDayOf(t *testing.T) {
	in := time.Date(2026, 3, 10, 9, 30, 59, 0, time.UTC)
	if got := TimeOfDayOf(in); got != 570 {
		t.Errorf("TimeOfDayOf = %d, want 570", got)
	}
}
