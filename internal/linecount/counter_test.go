package linecount

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountFile_SmallFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "a.py")

	if err := os.WriteFile(testFile, []byte("import os\nprint(1)\nprint(2)\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	lines, err := CountFile(testFile)
	if err != nil {
		t.Fatalf("CountFile failed: %v", err)
	}

	if lines != 3 {
		t.Errorf("Expected 3 lines, got %d", lines)
	}
}

func TestCountFile_LargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "large.txt")

	// Lines straddle the 32KB read buffer boundary
	lineCount := 20000
	content := strings.Repeat("0123456789abcdef\n", lineCount)

	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	lines, err := CountFile(testFile)
	if err != nil {
		t.Fatalf("CountFile failed: %v", err)
	}

	if lines != lineCount {
		t.Errorf("Expected %d lines, got %d", lineCount, lines)
	}
}

func TestCountFile_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "empty.txt")

	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	lines, err := CountFile(testFile)
	if err != nil {
		t.Fatalf("CountFile failed: %v", err)
	}

	if lines != 0 {
		t.Errorf("Expected 0 lines, got %d", lines)
	}
}

func TestCountFile_NonExistent(t *testing.T) {
	lines, err := CountFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("CountFile should return error for nonexistent file")
	}
	if lines != 0 {
		t.Errorf("Expected 0 lines on error, got %d", lines)
	}
}

func TestCount_InvalidUTF8(t *testing.T) {
	data := "ok\n\xff\xfe broken\n\xc3\n"

	lines, err := Count(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if lines != 3 {
		t.Errorf("Expected 3 lines, got %d", lines)
	}
}

func TestCount_NoTrailingNewline(t *testing.T) {
	lines, err := Count(strings.NewReader("one\ntwo"))
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if lines != 1 {
		t.Errorf("Expected 1 line, got %d", lines)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestCount_ReadError(t *testing.T) {
	lines, err := Count(failingReader{})
	if err == nil {
		t.Error("Count should return the read error")
	}
	if lines != 0 {
		t.Errorf("Expected 0 lines on error, got %d", lines)
	}
}
