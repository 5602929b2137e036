package imageservice

import (
	"path/filepath"
	"strings"

	"github.com/sushihentaime/diarist/internal/common"
)

// MaxImageBytes is the upload size ceiling.
const MaxImageBytes = 10 << 20

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func allowedExtension(ext string) bool {
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}

	return false
}

func fileExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func validateFile(v *common.Validator, name string, data []byte) {
	v.Check(len(data) > 0, "file", "must not be empty")
	v.Check(len(data) <= MaxImageBytes, "file", "must not be larger than 10MB")
	v.Check(allowedExtension(fileExtension(name)), "file", "must be a jpg, jpeg, png, gif or webp file")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
