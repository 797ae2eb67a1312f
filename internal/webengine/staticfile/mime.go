package staticfile

import "sync"

// mimeTableOnce lazily builds the extension lookup table, mirroring the
// recognized-header table in httpparse: process-wide, built once, read
// from many goroutines afterward.
var (
	mimeTableOnce sync.Once
	mimeTable     map[string]string
)

func initMimeTable() {
	mimeTable = map[string]string{
		".html": "text/html; charset=utf-8",
		".htm":  "text/html; charset=utf-8",
		".css":  "text/css; charset=utf-8",
		".js":   "application/javascript; charset=utf-8",
		".mjs":  "application/javascript; charset=utf-8",
		".json": "application/json; charset=utf-8",
		".svg":  "image/svg+xml",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
		".ico":  "image/x-icon",
		".woff": "font/woff",
		".woff2": "font/woff2",
		".ttf":  "font/ttf",
		".map":  "application/json; charset=utf-8",
		".txt":  "text/plain; charset=utf-8",
		".xml":  "application/xml; charset=utf-8",
		".wasm": "application/wasm",
		".gz":   "application/gzip",
	}
}

// MimeType returns the Content-Type for a file extension (including the
// leading dot, e.g. ".html"), or the generic octet-stream type when the
// extension is not recognized.
func MimeType(ext string) string {
	mimeTableOnce.Do(initMimeTable)
	if ct, ok := mimeTable[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
