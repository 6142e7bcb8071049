package utils

import (
	"testing"
	"time"
)

func TestParseEpochMillis(t *testing.T) {
	// Empty means "not supplied".
	got, err := ParseEpochMillis("")
	if got != nil || err != nil {
		t.Fatalf("empty: got %v %v", got, err)
	}

	got, err = ParseEpochMillis("1741564800000")
	if err != nil {
		t.Fatalf("valid: %v", err)
	}
	want := time.UnixMilli(1741564800000).UTC()
	if got == nil || !got.Equal(want) {
		t.Fatalf("valid: got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("result must be UTC, got %v", got.Location())
	}

	got, err = ParseEpochMillis("0")
	if err != nil || got == nil || got.UnixMilli() != 0 {
		t.Fatalf("epoch zero is valid: got %v %v", got, err)
	}

	for _, bad := range []string{"-1", "nope", "1.5", "9999999999999999999999"} {
		if _, err := ParseEpochMillis(bad); err != ErrBadEpochMillis {
			t.Fatalf("%q: expected ErrBadEpochMillis, got %v", bad, err)
		}
	}
}

func TestEpochMillisToTime(t *testing.T) {
	got, err := EpochMillisToTime(1741564800000)
	if err != nil || !got.Equal(time.UnixMilli(1741564800000).UTC()) {
		t.Fatalf("valid: got %v %v", got, err)
	}

	if _, err := EpochMillisToTime(-1); err != ErrBadEpochMillis {
		t.Fatalf("negative: expected ErrBadEpochMillis, got %v", err)
	}
}
