package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "\u00e9"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	headers := []string{"COL"}
	rows := [][]string{{"Hello\nWorld\r\nAgain\tTab"}}

	got := FormatTable(headers, rows)

	expected := "COL\nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected normalized table output, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"ID", "TITLE", "PRIORITY"}
	rows := [][]string{
		{"abc", "Buy milk", "high"},
		{"d", "Call mom", "low"},
	}

	got := FormatTable(headers, rows)

	expected := "ID   TITLE     PRIORITY\n" +
		"abc  Buy milk  high\n" +
		"d    Call mom  low\n"
	if got != expected {
		t.Fatalf("expected aligned table, got %q", got)
	}
}

func TestFormatKeyValues(t *testing.T) {
	got := FormatKeyValues([][2]string{{"Total", "3"}, {"High priority", "1"}})

	expected := "Total:          3\nHigh priority:  1\n"
	if got != expected {
		t.Fatalf("expected aligned pairs, got %q", got)
	}
}

func TestTruncateTableCellAddsEllipsis(t *testing.T) {
	got := TruncateTableCell(strings.Repeat("b", tableCellMaxWidth+10))

	if want := strings.Repeat("b", tableCellMaxWidth-3) + "..."; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatTableIgnoresANSIWidth(t *testing.T) {
	headers := []string{"ID", "TITLE"}
	plain := FormatTable(headers, [][]string{{"abc", "x"}})
	colored := FormatTable(headers, [][]string{{"\x1b[1ma\x1b[0mbc", "x"}})

	if strings.ReplaceAll(strings.ReplaceAll(colored, "\x1b[1m", ""), "\x1b[0m", "") != plain {
		t.Fatalf("expected same layout, got %q and %q", plain, colored)
	}
}
