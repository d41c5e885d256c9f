package weekcode

import (
	"fmt"
	"testing"
	"time"
)

func TestFindDateToken(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{"full date with colon", "WUNSCHLIEFERTERMIN: 3.11.2024", "3.11.2024", true},
		{"week year", "Woche 5.2024", "5.2024", true},
		{"no whitespace", "wunschliefertermin12.2025", "12.2025", true},
		{"label in line", "010 DX24 Liefertermin WOCHE: 14.03.2025 fix", "14.03.2025", true},
		{"unlabelled date", "Lieferung 3.11.2024", "", false},
		{"three digit day", "WOCHE 123.2024", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindDateToken(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FindDateToken(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"sentinel", Sentinel, Sentinel},
		{"keyword", "ausgelaufen", "ausgelaufen"},
		{"keyword mixed case", "Nicht Bekannt", "Nicht Bekannt"},
		{"full date", "3.11.2024", "4424"},
		{"full date padded", "01.01.2024", "0124"},
		{"full date iso week 1 of next year", "30.12.2024", "0124"},
		{"full date iso week 53 of previous year", "1.1.2027", "5327"},
		{"invalid day", "31.2.2024", "31.2.2024"},
		{"zero day", "0.1.2024", "0.1.2024"},
		{"invalid month", "1.13.2024", "1.13.2024"},
		{"week year", "5.2024", "0524"},
		{"week year no calendar check", "99.2024", "9924"},
		{"week zero", "0.2025", "0025"},
		{"already normalized", "4424", "4424"},
		{"other text", "sofort", "sofort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizer_Normalize_FullDatesMatchISOWeek(t *testing.T) {
	n := New(nil)
	start := time.Date(1999, 12, 20, 0, 0, 0, 0, time.UTC)

	for d := start; d.Year() < 2031; d = d.AddDate(0, 0, 3) {
		raw := fmt.Sprintf("%d.%d.%d", d.Day(), int(d.Month()), d.Year())
		got := n.Normalize(raw)
		_, week := d.ISOWeek()
		want := fmt.Sprintf("%02d%02d", week, d.Year()%100)
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizer_Normalize_WeekYear(t *testing.T) {
	n := New(nil)
	for week := 1; week <= 53; week++ {
		for _, year := range []int{1924, 2000, 2024, 2099} {
			raw := fmt.Sprintf("%d.%d", week, year)
			want := fmt.Sprintf("%02d%02d", week, year%100)
			if got := n.Normalize(raw); got != want {
				t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
			}
		}
	}
}

func TestNormalizer_Normalize_Idempotent(t *testing.T) {
	n := New(nil)
	inputs := []string{"3.11.2024", "5.2024", "ausgelaufen", Sentinel, "0124", "sofort"}
	for _, raw := range inputs {
		once := n.Normalize(raw)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", raw, twice, once)
		}
	}
}

func TestNormalizer_IsExceptional(t *testing.T) {
	n := New(nil)

	tests := []struct {
		value string
		want  bool
	}{
		{Sentinel, true},
		{"ausgelaufen", true},
		{"UNBEKANNT", true},
		{"4424", false},
		{"", false},
		{"ausgelaufen!", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := n.IsExceptional(tt.value); got != tt.want {
				t.Errorf("IsExceptional(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFromWeekToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"KW 05.2024", "0524"},
		{"kw 5.2024", "0524"},
		{"12.2025", "1225"},
		{"Auslauf*", "Auslauf*"},
		{"²", "²"},
		{"KW x.2024", "KW x.2024"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := FromWeekToken(tt.token); got != tt.want {
				t.Errorf("FromWeekToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestIsWeekYear(t *testing.T) {
	if !IsWeekYear("05.2024") {
		t.Error("IsWeekYear(05.2024) = false")
	}
	if IsWeekYear("3.11.2024") {
		t.Error("IsWeekYear(3.11.2024) = true")
	}
}
