package thumb

import (
	"io"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Exif is the subset of EXIF metadata the preview uses.
type Exif struct {
	CameraMake  string
	CameraModel string
	DateTaken   *time.Time
	Orientation int
}

// Camera returns "make model" with the make dropped when the model already
// starts with it.
func (e Exif) Camera() string {
	mk, model := strings.TrimSpace(e.CameraMake), strings.TrimSpace(e.CameraModel)
	switch {
	case model == "":
		return mk
	case mk == "" || strings.HasPrefix(model, mk):
		return model
	}
	return mk + " " + model
}

// ExtractExif reads EXIF data from r. Images without EXIF yield the zero
// metadata with orientation 1.
func ExtractExif(r io.Reader) Exif {
	d := Exif{Orientation: 1}
	x, err := exif.Decode(r)
	if err != nil {
		return d
	}

	d.CameraMake = tagString(x, exif.Make)
	d.CameraModel = tagString(x, exif.Model)

	if dt, err := x.DateTime(); err == nil {
		d.DateTaken = &dt
	}
	if orient, err := x.Get(exif.Orientation); err == nil {
		if v, err := orient.Int(0); err == nil && v >= 1 && v <= 8 {
			d.Orientation = v
		}
	}
	return d
}

func tagString(x *exif.Exif, f exif.FieldName) string {
	tag, err := x.Get(f)
	if err != nil {
		return ""
	}
	if tag.Format() == tiff.StringVal {
		s, _ := tag.StringVal()
		return strings.TrimRight(s, "\x00")
	}
	return tag.String()
}
