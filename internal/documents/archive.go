package documents

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// WriteArchive writes every document into a ZIP archive in batch order.
// Documents without a package are skipped.
func WriteArchive(w io.Writer, docs []Document) error {
	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, doc := range docs {
		if doc.Package == nil {
			continue
		}
		header := &zip.FileHeader{
			Name:     doc.FileName,
			Method:   zip.Deflate,
			Modified: modified,
		}
		f, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("archive %s: %w", doc.FileName, err)
		}
		if _, err := doc.Package.WriteTo(f); err != nil {
			return fmt.Errorf("archive %s: %w", doc.FileName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
