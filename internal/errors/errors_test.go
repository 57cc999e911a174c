package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "unresolved placeholder",
			code:    "E001",
			wantMsg: "Unresolved placeholder",
			wantCat: CategoryTemplate,
		},
		{
			name:    "malformed factory",
			code:    "E002",
			wantMsg: "Malformed component factory",
			wantCat: CategoryComponent,
		},
		{
			name:    "config",
			code:    "E120",
			wantMsg: "Invalid cellbind.json",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "x.json")
	if err.Message != `file "x.json" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != err.Message {
		t.Errorf("Error() = %q, want bare message without code", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := New("E001").WithDetail("callback abc").Wrap(fmt.Errorf("boom"))
	want := "E001: Unresolved placeholder: callback abc: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapAndIs(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New("E130").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(fmt.Errorf("ctx: %w", err), New("E130")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New("E131")) {
		t.Error("different codes must not match")
	}
	if Code(fmt.Errorf("outer: %w", err)) != "E130" {
		t.Errorf("Code() = %q", Code(err))
	}
	if Code(cause) != "" {
		t.Error("plain error should have no code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E130") != nil {
		t.Error("FromError(nil) should be nil")
	}

	coded := New("E120")
	if FromError(coded, "E130") != coded {
		t.Error("FromError should pass coded errors through")
	}

	plain := stderrors.New("x")
	got := FromError(plain, "E130")
	if got.Code != "E130" || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := New("E001").WithDetail("cb 42").With(slog.String("id", "42"))
	logger.Warn("binding skipped", "err", err)

	var rec map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &rec); jerr != nil {
		t.Fatalf("bad log line %q: %v", buf.String(), jerr)
	}
	group, ok := rec["err"].(map[string]any)
	if !ok {
		t.Fatalf("err field = %v", rec["err"])
	}
	if group["code"] != "E001" || group["id"] != "42" || group["detail"] != "cb 42" {
		t.Errorf("err group = %v", group)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E002").WithDetail("factory button returned nil")
	out := err.Format()

	for _, want := range []string{"ERROR E002: Malformed component factory", "factory button returned nil", "Hint: "} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E140").WithDetail("#missing")

	var out map[string]string
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &out); jerr != nil {
		t.Fatal(jerr)
	}
	if out["code"] != "E140" || out["category"] != "playground" || out["detail"] != "#missing" {
		t.Errorf("FormatJSON = %v", out)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Fprint = %q", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	seen := make(map[string]bool)
	for _, c := range codes {
		seen[c] = true
	}
	for _, want := range []string{"E001", "E002", "E003", "E004", "E120", "E130", "E140"} {
		if !seen[want] {
			t.Errorf("code %s not registered", want)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("E900", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	tmpl, ok := GetTemplate("E900")
	if !ok || tmpl.Message != "custom" {
		t.Errorf("GetTemplate(E900) = %+v, %v", tmpl, ok)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}
