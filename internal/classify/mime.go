package classify

import (
	"io"
	"mime"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is the number of leading bytes read for content detection.
const sniffLen = 512

// MIME returns a content type hint for path, or "" if none is known.
// With sniffing enabled the file header is inspected first; the extension
// lookup is the fallback when the file cannot be read or is empty.
func (c *Classifier) MIME(path string) string {
	if c.sniff {
		if mt := sniff(path); mt != "" {
			return mt
		}
	}

	ext := Extension(path)
	if ext == "" {
		return ""
	}

	return mime.TypeByExtension(ext)
}

func sniff(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	buf := make([]byte, sniffLen)

	n, err := io.ReadFull(file, buf)
	if n == 0 && err != nil {
		return ""
	}

	if mt := mimetype.Detect(buf[:n]); mt != nil {
		return mt.String()
	}

	return ""
}
