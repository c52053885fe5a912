package validate

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rentmatch/rentmatch-api/internal/domain"
)

var letterExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// imageFileErrors enforces the 3..10 photo window and the per-file size and
// MIME bounds. A count violation and per-file violations can both appear
// under the "images" key.
func imageFileErrors(files []*multipart.FileHeader, errs Errors) {
	if len(files) < domain.MinListingImages || len(files) > domain.MaxListingImages {
		errs.Add("images", fmt.Sprintf("Between %d and %d photos are required.",
			domain.MinListingImages, domain.MaxListingImages))
	}
	for _, fh := range files {
		if fh.Size > domain.MaxImageSize {
			errs.Add("images", fmt.Sprintf("%s: photo exceeds the %dMB limit.",
				fh.Filename, domain.MaxImageSize>>20))
		}
		if ct := fh.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
			errs.Add("images", fmt.Sprintf("%s: only image files are accepted.", fh.Filename))
		}
	}
}

func letterFileErrors(fh *multipart.FileHeader, errs Errors) {
	if fh.Size > domain.MaxLetterSize {
		errs.Add("letter", fmt.Sprintf("Cover letter exceeds the %dMB limit.",
			domain.MaxLetterSize>>20))
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !letterExtensions[ext] {
		errs.Add("letter", "Cover letter must be a PDF or Word document.")
	}
}
