package photo

// Context is the read-only accessor a host exposes over one photo record.
// Each lookup returns the field value and whether it is present; absent
// fields are normal, not errors.
type Context interface {
	Field(name string) (string, bool)
}

// Field names understood by Extract.
const (
	FieldGPS               = "gps"
	FieldCameraMake        = "cameraMake"
	FieldCameraModel       = "cameraModel"
	FieldLens              = "lens"
	FieldFocalLength       = "focalLength"
	FieldAperture          = "aperture"
	FieldShutterSpeed      = "shutterSpeed"
	FieldISOSpeedRating    = "isoSpeedRating"
	FieldFlash             = "flash"
	FieldDateTimeOriginal  = "dateTimeOriginal"
	FieldDimensions        = "dimensions"
	FieldCroppedDimensions = "croppedDimensions"
)

// MapContext adapts a plain map (e.g. multipart form fields) to Context.
type MapContext map[string]string

// Field implements Context.
func (m MapContext) Field(name string) (string, bool) {
	v, ok := m[name]
	if v == "" {
		return "", false
	}
	return v, ok
}

// Metadata is the camera/GPS/exposure projection used for prompt
// enrichment. All fields are optional; presence is carried by non-empty
// strings since the values are only ever concatenated into prompt text.
type Metadata struct {
	GPS               string
	CameraMake        string
	CameraModel       string
	Lens              string
	FocalLength       string
	Aperture          string
	ShutterSpeed      string
	ISOSpeedRating    string
	Flash             string
	DateTimeOriginal  string
	Dimensions        string
	CroppedDimensions string
}

// Extract projects the enrichment fields out of a photo context. It returns
// nil when none of the fields are available so callers can skip the
// enrichment section entirely. Pure projection: no side effects.
func Extract(pc Context) *Metadata {
	if pc == nil {
		return nil
	}

	var md Metadata
	present := false

	read := func(name string, dst *string) {
		if v, ok := pc.Field(name); ok && v != "" {
			*dst = v
			present = true
		}
	}

	read(FieldGPS, &md.GPS)
	read(FieldCameraMake, &md.CameraMake)
	read(FieldCameraModel, &md.CameraModel)
	read(FieldLens, &md.Lens)
	read(FieldFocalLength, &md.FocalLength)
	read(FieldAperture, &md.Aperture)
	read(FieldShutterSpeed, &md.ShutterSpeed)
	read(FieldISOSpeedRating, &md.ISOSpeedRating)
	read(FieldFlash, &md.Flash)
	read(FieldDateTimeOriginal, &md.DateTimeOriginal)
	read(FieldDimensions, &md.Dimensions)
	read(FieldCroppedDimensions, &md.CroppedDimensions)

	if !present {
		return nil
	}
	return &md
}
