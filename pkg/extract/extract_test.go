package extract

import (
	"errors"
	"testing"

	"github.com/ccollicutt/orderscan/pkg/reference"
)

const positionsDoc = "Bestellung HH4711\n010 DX24 WOCHE 5.2024\n"

const streamDoc = "144111111 HH100 DX24 KW 6.2024\n"

type fixedDetector Strategy

func (d fixedDetector) Recommend(string) Strategy { return Strategy(d) }

func TestExtractor_Extract(t *testing.T) {
	e := New(nil)

	got := e.Extract(positionsDoc, false)
	if len(got) != 1 || got[0].OrderNumber != "HH4711" || got[0].DesiredDate != "0524" {
		t.Errorf("Extract(positions) = %+v", got)
	}

	got = e.Extract(streamDoc, true)
	if len(got) != 1 || got[0].ConfirmationNumber != "144111111" || got[0].DesiredDate != "0624" {
		t.Errorf("Extract(stream) = %+v", got)
	}
}

func TestExtractor_Extract_Empty(t *testing.T) {
	e := New(nil)
	for _, useStream := range []bool{false, true} {
		got := e.Extract("", useStream)
		if got == nil || len(got) != 0 {
			t.Errorf("Extract(\"\", %v) = %v, want empty slice", useStream, got)
		}
	}
}

func TestExtractor_ExtractWith(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		text     string
		strategy Strategy
		wantConf string
	}{
		{"positions", nil, positionsDoc, StrategyPositions, ""},
		{"stream", nil, streamDoc, StrategyStream, "144111111"},
		{"auto with detector", []Option{WithLayoutDetector(fixedDetector(StrategyStream))}, streamDoc, StrategyAuto, "144111111"},
		{"auto without detector uses positions", nil, positionsDoc, StrategyAuto, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(reference.Default(), tt.opts...)
			got, err := e.ExtractWith(tt.text, tt.strategy)
			if err != nil {
				t.Fatalf("ExtractWith() error = %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("ExtractWith() returned %d records, want 1", len(got))
			}
			if got[0].ConfirmationNumber != tt.wantConf {
				t.Errorf("ConfirmationNumber = %q, want %q", got[0].ConfirmationNumber, tt.wantConf)
			}
		})
	}
}

func TestExtractor_ExtractWith_Unknown(t *testing.T) {
	e := New(nil)
	_, err := e.ExtractWith(positionsDoc, Strategy("columns"))
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("ExtractWith() error = %v, want ErrUnknownStrategy", err)
	}
}

func TestExtractor_Parser(t *testing.T) {
	e := New(nil)
	for _, s := range []Strategy{StrategyPositions, StrategyStream} {
		p, err := e.Parser(s)
		if err != nil {
			t.Fatalf("Parser(%s) error = %v", s, err)
		}
		if p.Strategy() != s {
			t.Errorf("Parser(%s).Strategy() = %s", s, p.Strategy())
		}
	}
	if _, err := e.Parser(StrategyAuto); err == nil {
		t.Error("Parser(auto) expected error")
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"positions", StrategyPositions, false},
		{" Stream ", StrategyStream, false},
		{"AUTO", StrategyAuto, false},
		{"", "", true},
		{"blocks", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
