package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/hammamikhairi/meditime/internal/domain"
)

func init() {
	color.NoColor = true
}

// execute runs one meditime invocation against the config file and
// returns what it printed.
func execute(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", configFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "meditime.yaml")
	body := "path: " + filepath.Join(dir, "store") + "\nlog:\n  level: off\n  file: stderr\n"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return file
}

func TestAddListTakenRemove(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "add", "Vitamin", "D", "--dosage", "1000IU", "--time", "20:00,08:00", "--days", "mon,thu")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Vitamin D") || !strings.Contains(out, "08:00, 20:00") || !strings.Contains(out, "Mon, Thu") {
		t.Fatalf("unexpected add output:\n%s", out)
	}

	out, err = execute(t, cfg, "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var meds []domain.Medicine
	if err := json.Unmarshal([]byte(out), &meds); err != nil {
		t.Fatalf("list json: %v\n%s", err, out)
	}
	if len(meds) != 1 || meds[0].Dosage != "1000IU" || meds[0].Days != domain.RecurCustom {
		t.Fatalf("unexpected list %+v", meds)
	}

	if _, err := execute(t, cfg, "edit", "1", "--time", "09:00"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if out, err = execute(t, cfg, "taken", "vitamin d"); err != nil {
		t.Fatalf("taken: %v", err)
	}
	if !strings.Contains(out, "Vitamin D taken at") {
		t.Fatalf("unexpected taken output: %s", out)
	}

	out, err = execute(t, cfg, "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	meds = nil
	if err := json.Unmarshal([]byte(out), &meds); err != nil {
		t.Fatalf("list json: %v", err)
	}
	m := meds[0]
	if strings.Join(m.Times, ",") != "09:00" || m.Dosage != "1000IU" || len(m.History) != 1 {
		t.Fatalf("edit should change only the times, got %+v", m)
	}

	// Without --yes the empty stdin answers no.
	if out, err = execute(t, cfg, "rm", "1"); err != nil || !strings.Contains(out, "Kept.") {
		t.Fatalf("rm without confirmation: %v\n%s", err, out)
	}
	if out, err = execute(t, cfg, "rm", "1", "--yes"); err != nil || !strings.Contains(out, "Deleted Vitamin D.") {
		t.Fatalf("rm: %v\n%s", err, out)
	}

	out, err = execute(t, cfg, "next", "--json")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if strings.TrimSpace(out) != "null" {
		t.Fatalf("expected nothing due, got %s", out)
	}
}

func TestValidationErrorsSurface(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		args []string
		want error
	}{
		{[]string{"add", "X", "--time", "25:00"}, domain.ErrInvalidInput},
		{[]string{"add", "X", "--days", "funday"}, domain.ErrInvalidInput},
		{[]string{"taken", "ghost"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		_, err := execute(t, cfg, tt.args...)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%v: expected %v, got %v", tt.args, tt.want, err)
		}
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in       string
		wantRec  domain.Recurrence
		wantDays string
		wantErr  bool
	}{
		{"every", domain.RecurEveryday, "", false},
		{"", domain.RecurEveryday, "", false},
		{"mon,wed,fri", domain.RecurCustom, "1,3,5", false},
		{"0, 6", domain.RecurCustom, "0,6", false},
		{"tuesday", domain.RecurCustom, "2", false},
		{",", "", "", true},
		{"7", "", "", true},
	}
	for _, tt := range tests {
		rec, days, err := parseDays(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		var got []string
		for _, d := range days {
			got = append(got, string(rune('0'+d)))
		}
		if rec != tt.wantRec || strings.Join(got, ",") != tt.wantDays {
			t.Fatalf("%q: got %s %v", tt.in, rec, days)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, writeConfig(t), "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}
