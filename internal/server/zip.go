package server

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"inspira/internal/services"
)

// maxImageBytes bounds a single decompressed image entry.
const maxImageBytes = 25 << 20

// extractImages unpacks image entries from the uploaded zip into destDir,
// flattening any directory structure. Non-image entries are skipped.
func extractImages(archive io.Reader, destDir string) (int, error) {
	data, err := io.ReadAll(io.LimitReader(archive, maxZipBytes))
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "server", "upload", "arquivo não é um zip válido", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create downloads dir: %w", err)
	}

	count := 0
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(entry.Name)
		if strings.HasPrefix(base, ".") || strings.Contains(entry.Name, "__MACOSX") {
			continue
		}
		if !isImageName(base) {
			continue
		}

		src, err := entry.Open()
		if err != nil {
			return count, fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		dest := filepath.Join(destDir, base)
		out, err := os.Create(dest)
		if err != nil {
			src.Close()
			return count, fmt.Errorf("create %s: %w", dest, err)
		}
		written, copyErr := io.Copy(out, io.LimitReader(src, maxImageBytes+1))
		src.Close()
		closeErr := out.Close()
		if copyErr != nil {
			return count, fmt.Errorf("extract %s: %w", entry.Name, copyErr)
		}
		if written > maxImageBytes {
			_ = os.Remove(dest)
			return count, services.Wrap(services.ErrValidation, "server", "upload",
				fmt.Sprintf("imagem %s excede o tamanho máximo", base), nil)
		}
		if closeErr != nil {
			return count, fmt.Errorf("flush %s: %w", dest, closeErr)
		}
		count++
	}
	return count, nil
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}
