package cli

import (
	"bytes"
	"image"
	"io"

	"github.com/pkg/errors"

	"github.com/markerseg/markerseg/rimage"
	"github.com/markerseg/markerseg/utils"
)

// artifact is an image a command writes to path.
type artifact struct {
	path string
	img  image.Image
}

// writeArtifacts encodes every artifact before writing any of them. When a write fails the files already
// written by this call are removed, so a command either leaves all of its outputs or none.
func writeArtifacts(artifacts ...artifact) error {
	encoded := make([][]byte, len(artifacts))
	for i, a := range artifacts {
		var buf bytes.Buffer
		if err := rimage.EncodeImage(&buf, a.img, utils.MimeTypeFromPath(a.path)); err != nil {
			return errors.Wrapf(err, "cannot encode %q", a.path)
		}
		encoded[i] = buf.Bytes()
	}
	for i, a := range artifacts {
		data := encoded[i]
		err := utils.AtomicWriteFile(a.path, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
		if err != nil {
			for _, written := range artifacts[:i] {
				utils.RemoveFileNoError(written.path)
			}
			return err
		}
	}
	return nil
}
