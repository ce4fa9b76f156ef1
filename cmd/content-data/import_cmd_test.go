package main

import (
	"errors"
	"testing"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/importexport"
)

func TestResolveFormat_FromExtension(t *testing.T) {
	format, err := resolveFormat("", "exports/content.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != importexport.FormatXLSX {
		t.Fatalf("unexpected format: %s", format)
	}

	format, err = resolveFormat("", "content.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != importexport.FormatCSV {
		t.Fatalf("unexpected format: %s", format)
	}
}

func TestResolveFormat_FlagWins(t *testing.T) {
	format, err := resolveFormat("csv", "content.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != importexport.FormatCSV {
		t.Fatalf("unexpected format: %s", format)
	}
}

func TestResolveFormat_UnknownExtension(t *testing.T) {
	_, err := resolveFormat("", "content.pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := exitCode(err); got != exitUsage {
		t.Fatalf("unexpected exit code: %d", got)
	}
}

func TestImportExitCode(t *testing.T) {
	if got := importExitCode(importexport.ErrFormat); got != exitValidation {
		t.Fatalf("format error: unexpected exit code %d", got)
	}
	if got := importExitCode(importexport.ErrReference.WithDetail("page %q", "x")); got != exitValidation {
		t.Fatalf("reference error: unexpected exit code %d", got)
	}
	if got := importExitCode(errors.New("connection refused")); got != exitDB {
		t.Fatalf("db error: unexpected exit code %d", got)
	}
}

func TestExitCode_PlainErrorIsOne(t *testing.T) {
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Fatalf("unexpected exit code: %d", got)
	}
	if got := exitCode(nil); got != exitOK {
		t.Fatalf("unexpected exit code: %d", got)
	}
}
