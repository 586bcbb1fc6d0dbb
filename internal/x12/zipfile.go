package x12

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadFile reads the raw bytes of an EDI file. When path names a .zip
// archive, the single entry whose name ends in ext (e.g. ".835") is
// extracted and returned instead; a missing entry is a structural error.
func ReadFile(path, ext string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return readZipEntry(path, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edi file: %w", err)
	}
	return data, nil
}

func readZipEntry(path, ext string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), strings.ToLower(ext)) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read zip entry %s: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, Structuralf("zip archive %s contains no %s entry", filepath.Base(path), ext)
}
