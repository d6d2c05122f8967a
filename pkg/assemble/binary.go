package assemble

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// sniffLen is how many leading bytes are inspected for binary content.
const sniffLen = 8000

// binaryExtensions short-circuits the content sniff for formats that are
// always binary. The sniff remains authoritative for everything else.
var binaryExtensions = map[string]bool{
	".7z": true, ".avi": true, ".bin": true, ".bmp": true, ".bz2": true,
	".class": true, ".dat": true, ".db": true, ".dll": true, ".doc": true,
	".docx": true, ".dylib": true, ".exe": true, ".flv": true, ".gif": true,
	".gz": true, ".ico": true, ".jar": true, ".jpeg": true, ".jpg": true,
	".mkv": true, ".mov": true, ".mp3": true, ".mp4": true, ".o": true,
	".pdf": true, ".png": true, ".ppt": true, ".pptx": true, ".pyc": true,
	".pyo": true, ".rar": true, ".so": true, ".sqlite": true, ".tar": true,
	".tiff": true, ".wmv": true, ".xls": true, ".xlsx": true, ".zip": true,
}

// hasBinaryExtension reports whether the path names a known binary format.
func hasBinaryExtension(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// isBinary reports whether the sniffed prefix of a file looks binary: a null
// byte or invalid UTF-8. An incomplete trailing rune cut off by the sniff
// window is not counted as invalid.
func isBinary(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}
	for _, b := range prefix {
		if b == 0 {
			return true
		}
	}
	if len(prefix) == sniffLen {
		// Drop up to utf8.UTFMax-1 trailing bytes so a rune split by the
		// window boundary does not misclassify the file.
		for i := 0; i < utf8.UTFMax-1 && len(prefix) > 0; i++ {
			if r, _ := utf8.DecodeLastRune(prefix); r != utf8.RuneError {
				break
			}
			prefix = prefix[:len(prefix)-1]
		}
	}
	return !utf8.Valid(prefix)
}
