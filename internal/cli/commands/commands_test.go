package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ccollicutt/orderscan/pkg/config"
	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/output"
)

var documentsDir = filepath.Join("..", "..", "..", "testdata", "documents")

const cleanDocument = "Bestellung HH4711\n010 DX24\nWUNSCHLIEFERTERMIN: 3.11.2024\n"

// resetExitCode clears the package exit code around a test.
func resetExitCode(t *testing.T) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	return path
}

// runExtractCommand executes extract with args and returns stdout and stderr.
func runExtractCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	cmd := NewExtractCommand()
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewExtractCommand(t *testing.T) {
	cmd := NewExtractCommand()

	if cmd.Use != "extract [inputs...]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	// Check flags exist
	flags := []string{"config", "strategy", "output", "out", "concurrency", "verbose", "quiet",
		"log-format", "webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if got := buf.String(); got != "orderscan dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestRunValidate_Success(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.txt", cleanDocument)
	writeFile(t, tmpDir, "b.pdf", "%PDF-1.4")

	configPath := writeFile(t, tmpDir, "config.yaml", `inputs:
  - `+tmpDir+`
strategy: auto
output:
  format: xlsx
  path: orders.xlsx
reference:
  extra_models: [DX30]
`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	// Capture output
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Configuration valid!", "Strategy:    auto", "xlsx -> orders.xlsx", "Documents matched: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_NoMatchingInputs(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeFile(t, tmpDir, "config.yaml", "inputs:\n  - "+filepath.Join(tmpDir, "*.pdf")+"\n")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Warning: No documents match") {
		t.Errorf("Expected warning, got:\n%s", buf.String())
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	tests := map[string]string{
		"yaml":     "invalid: yaml: content",
		"strategy": "strategy: columns\n",
		"branch":   "reference:\n  branches: [HAM]\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := writeFile(t, tmpDir, name+".yaml", content)

			cmd := NewValidateCommand()
			cmd.SetArgs([]string{configPath})
			cmd.SetOut(&bytes.Buffer{})

			if err := cmd.ExecuteContext(context.Background()); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunExtract_SampleDocumentsJSON(t *testing.T) {
	resetExitCode(t)

	stdout, _, err := runExtractCommand(t, "-s", "auto", "-o", "json", "-j", "2", documentsDir)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, stdout)
	}

	if report.Summary.Documents != 2 || report.Summary.Records != 10 {
		t.Errorf("Summary = %+v, want 2 documents and 10 records", report.Summary)
	}
	if report.Metadata.Strategy != extract.StrategyAuto {
		t.Errorf("Metadata.Strategy = %q, want auto", report.Metadata.Strategy)
	}

	// Documents are sorted, so positions_order.txt comes first
	if report.Documents[0].Strategy != extract.StrategyPositions || report.Documents[1].Strategy != extract.StrategyStream {
		t.Errorf("Documents = %+v", report.Documents)
	}
	if report.Rows[0].OrderNumber != "HH4711" || report.Rows[0].DesiredDate != "4424" {
		t.Errorf("first row = %+v", report.Rows[0])
	}
	if report.Rows[5].ConfirmationNumber != "144100001" || report.Rows[5].DesiredDate != "0524" {
		t.Errorf("sixth row = %+v", report.Rows[5])
	}

	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1 for highlighted values", ExitCode)
	}
}

func TestRunExtract_CleanDocumentExitsZero(t *testing.T) {
	resetExitCode(t)
	doc := writeFile(t, t.TempDir(), "clean.txt", cleanDocument)

	stdout, _, err := runExtractCommand(t, "-q", doc)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	want := "orderscan: 1 documents, 0 failed, 1 records, 0 highlighted models, 0 highlighted dates\n"
	if stdout != want {
		t.Errorf("quiet output = %q, want %q", stdout, want)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
}

func TestRunExtract_TextOutput(t *testing.T) {
	resetExitCode(t)

	stdout, _, err := runExtractCommand(t, filepath.Join(documentsDir, "positions_order.txt"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	for _, want := range []string{"ORDER", "HH4711", "Sonderbau!", "nicht bekannt!", "00.00.0000!", "Summary: 1 documents (0 failed), 5 records"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunExtract_XLSXFile(t *testing.T) {
	resetExitCode(t)
	outPath := filepath.Join(t.TempDir(), "reports", "orders.xlsx")

	_, stderr, err := runExtractCommand(t, "-s", "stream", "-o", "xlsx", "--out", outPath,
		filepath.Join(documentsDir, "stream_order.txt"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(stderr, "extract.report.written") {
		t.Errorf("Expected report log line, got:\n%s", stderr)
	}

	wb, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(output.DefaultSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want header plus 5 records", len(rows))
	}
	if rows[0][0] != "Auftragsnummer" || rows[1][1] != "DX24" || rows[3][1] != "WT44" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestRunExtract_MissingDocumentIsReported(t *testing.T) {
	resetExitCode(t)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	stdout, stderr, err := runExtractCommand(t, missing, filepath.Join(documentsDir, "stream_order.txt"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if !strings.Contains(stdout, "Failed: 1 document(s)") || !strings.Contains(stdout, "5 records") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if !strings.Contains(stderr, "batch.document.failed") {
		t.Errorf("Expected failure log, got:\n%s", stderr)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestRunExtract_XLSXNeedsPath(t *testing.T) {
	resetExitCode(t)

	_, _, err := runExtractCommand(t, "-o", "xlsx", documentsDir)
	if err == nil || !strings.Contains(err.Error(), "--out") {
		t.Errorf("Expected error mentioning --out, got %v", err)
	}
}

func TestRunExtract_InputsFromConfig(t *testing.T) {
	resetExitCode(t)
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "clean.txt", cleanDocument)
	configPath := writeFile(t, tmpDir, "config.yaml", "inputs:\n  - "+filepath.Join(tmpDir, "*.txt")+"\noutput:\n  format: json\n")

	stdout, _, err := runExtractCommand(t, "-c", configPath)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if report.Summary.Records != 1 || report.Metadata.ConfigFile != configPath {
		t.Errorf("report = %+v", report)
	}
}

func TestRunExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no inputs", nil, "no inputs"},
		{"bad strategy", []string{"-s", "columns", documentsDir}, "strategy"},
		{"bad format", []string{"-o", "csv", documentsDir}, "invalid format"},
		{"bad log format", []string{"--log-format", "xml", documentsDir}, "unknown log format"},
		{"bad webhook trigger", []string{"--webhook-url", "http://localhost:1/hook", "--webhook-trigger", "sometimes", documentsDir}, "invalid trigger"},
		{"missing config", []string{"-c", "/nonexistent/config.yaml", documentsDir}, "loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetExitCode(t)
			_, _, err := runExtractCommand(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunExtract_Webhook(t *testing.T) {
	tests := []struct {
		name     string
		document string
		trigger  string
		wantHits int32
	}{
		{"highlights fire on_highlights", "positions_order.txt", "on_highlights", 1},
		{"never suppresses", "positions_order.txt", "never", 0},
		{"clean document skips on_highlights", "", "on_highlights", 0},
		{"clean document fires always", "", "always", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetExitCode(t)

			var hits atomic.Int32
			var gotAuth, gotRun string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotRun = r.Header.Get("X-Orderscan-Run")
				hits.Add(1)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			doc := filepath.Join(documentsDir, tt.document)
			if tt.document == "" {
				doc = writeFile(t, t.TempDir(), "clean.txt", cleanDocument)
			}

			_, stderr, err := runExtractCommand(t, "-q",
				"--webhook-url", server.URL,
				"--webhook-token", "secret",
				"--webhook-trigger", tt.trigger,
				doc)
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}

			if got := hits.Load(); got != tt.wantHits {
				t.Fatalf("webhook hits = %d, want %d", got, tt.wantHits)
			}
			if tt.wantHits > 0 {
				if gotAuth != "Bearer secret" || gotRun == "" {
					t.Errorf("headers: Authorization=%q X-Orderscan-Run=%q", gotAuth, gotRun)
				}
				if !strings.Contains(stderr, "webhook.sent") {
					t.Errorf("Expected webhook.sent log, got:\n%s", stderr)
				}
			}
		})
	}
}

func TestRunExtract_WebhookFailureDoesNotFail(t *testing.T) {
	resetExitCode(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, stderr, err := runExtractCommand(t, "-q", "--log-format", "json",
		"--webhook-url", server.URL, "--webhook-trigger", "always",
		filepath.Join(documentsDir, "stream_order.txt"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(stderr, `"msg":"webhook.failed"`) {
		t.Errorf("Expected JSON webhook.failed log, got:\n%s", stderr)
	}
}

func TestApplyExtractFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := &ExtractOptions{
		Strategy:       "stream",
		Output:         "JSON",
		OutPath:        "out.json",
		Concurrency:    3,
		WebhookURL:     "https://example.com/hook",
		WebhookTrigger: "always",
	}

	if err := applyExtractFlags(cfg, opts); err != nil {
		t.Fatalf("applyExtractFlags() error = %v", err)
	}

	if cfg.StrategyEnum() != extract.StrategyStream {
		t.Errorf("StrategyEnum() = %q", cfg.StrategyEnum())
	}
	if cfg.Output.Format != "json" || cfg.Output.Path != "out.json" || cfg.Concurrency != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Webhooks) != 1 || cfg.Webhooks[0].Name != "cli" || cfg.Webhooks[0].Trigger != config.WebhookTriggerAlways {
		t.Errorf("Webhooks = %+v", cfg.Webhooks)
	}
	if cfg.Webhooks[0].Timeout != config.DefaultWebhookTimeout {
		t.Errorf("Webhook timeout = %v", cfg.Webhooks[0].Timeout)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(LogFormatJSON, false, &buf)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message logged without verbose")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected JSON log: %s", out)
	}

	buf.Reset()
	logger, err = newLogger("", true, &buf)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("unexpected text log: %s", buf.String())
	}
}
