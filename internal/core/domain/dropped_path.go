package domain

// DroppedPath is one item delivered by the host for a frame
type DroppedPath struct {
	Raw   string // value exactly as the host delivered it
	Path  string // usable filesystem path, empty when Valid is false
	Valid bool
}

// NewDroppedPath wraps a path that is already known to be usable
func NewDroppedPath(path string) DroppedPath {
	return DroppedPath{Raw: path, Path: path, Valid: true}
}

// UnreadablePath records a host value no path could be recovered from
func UnreadablePath(raw string) DroppedPath {
	return DroppedPath{Raw: raw}
}
