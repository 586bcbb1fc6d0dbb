package x12

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remit.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remit.835")
	if err := os.WriteFile(path, []byte("ISA*00~"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := ReadFile(path, ".835")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "ISA*00~" {
		t.Errorf("data = %q", data)
	}
}

func TestReadFile_ZipExtractsMatchingEntry(t *testing.T) {
	path := writeZip(t, map[string]string{
		"readme.txt":  "not edi",
		"payer/R.835": "ISA*00~IEA*1*1~",
	})
	data, err := ReadFile(path, ".835")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "ISA*00~IEA*1*1~" {
		t.Errorf("data = %q", data)
	}
}

func TestReadFile_ZipMissingEntry(t *testing.T) {
	path := writeZip(t, map[string]string{"readme.txt": "not edi"})
	_, err := ReadFile(path, ".835")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindStructural {
		t.Errorf("kind = %v, want structural", KindOf(err))
	}
}
