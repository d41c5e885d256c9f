package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/orderscan/pkg/batch"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(&batch.Result{}, "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No records extracted") {
		t.Error("Expected 'No records extracted' message")
	}
	if !strings.Contains(output, "Summary: 0 documents (0 failed), 0 records") {
		t.Errorf("Expected summary line, got:\n%s", output)
	}
	if strings.Contains(output, "need review") {
		t.Error("Unexpected review legend without highlights")
	}
}

func TestTextFormatter_Format_Rows(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	checks := []string{
		"=== orderscan Extraction Report ===",
		"ORDER",
		"DESIRED DATE",
		"Sonderbau!",
		"00.00.0000!",
		"4424",
		"Failed: 1 document(s)",
		"exit status 1",
		"Summary: 3 documents (1 failed), 4 records, 1 highlighted models, 1 highlighted dates",
		"Values marked ! need review",
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q:\n%s", want, output)
		}
	}

	// Stream record without order number
	var streamLine string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "WT44") {
			streamLine = line
		}
	}
	if !strings.HasPrefix(streamLine, "-") {
		t.Errorf("Expected dash for absent order number, got %q", streamLine)
	}

	if strings.Contains(output, "Run:") {
		t.Error("Run ID should only appear in verbose mode")
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "orderscan: 3 documents, 1 failed, 4 records, 1 highlighted models, 1 highlighted dates\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"[positions] orders/a.pdf: 3 record(s)",
		"[stream] orders/b.txt: 1 record(s)",
		"Run: 3f1c8a52-1111-4a4a-9c9c-000000000001",
		"Duration: 1.5s",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Verbose output missing %q:\n%s", want, output)
		}
	}
}
