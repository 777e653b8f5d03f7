package media

import (
	"io"

	"github.com/gabriel-vasile/mimetype"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
)

// allowedImageExts maps the accepted MIME types to the stored extension.
// Detection is content based so a renamed file cannot smuggle another type.
var allowedImageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SniffImageExt detects the content type from the stream and returns the
// extension to store the file under. Non-image payloads are rejected.
func SniffImageExt(r io.Reader) (string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sniff upload")
	}
	ext, ok := allowedImageExts[mt.String()]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "images must be jpeg, png, or webp")
	}
	return ext, nil
}
