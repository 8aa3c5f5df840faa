package media

const (
	pngDataURI  = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
	gifDataURI  = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"
	htmlDataURI = "data:image/png;base64,PGh0bWw+PGJvZHk+PC9ib2R5PjwvaHRtbD4="
	// opaque payload that no sniffer recognises; only the header names a type
	opaqueDataURI = "data:image/png;base64,XYZ"
)
