package media

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

// InlineImage is a decoded data URI ready to upload.
type InlineImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

// inconclusiveTypes are sniff results that say nothing about the payload; the
// type declared in the URI header is trusted for them.
var inconclusiveTypes = map[string]bool{
	"application/octet-stream": true,
	"text/plain":               true,
}

// DecodeDataURI parses a base64 data:image URI. The content type comes from
// sniffing the payload; when sniffing is inconclusive the declared type is used.
// Payloads that sniff as a concrete non-image format are rejected.
// maxBytes <= 0 disables the size check.
func DecodeDataURI(raw string, maxBytes int64) (*InlineImage, error) {
	if !IsInlineImage(raw) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image must be a data:image URI")
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "data URI missing payload")
	}
	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "data URI must be base64 encoded")
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+3 {
		return nil, tooLarge(maxBytes)
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "data URI payload is not valid base64")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "data URI payload is empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}

	contentType := strings.ToLower(strings.SplitN(mimetype.Detect(data).String(), ";", 2)[0])
	ext, ok := allowedImageTypes[contentType]
	if !ok && inconclusiveTypes[contentType] {
		declared := strings.ToLower(strings.TrimSpace(params[0]))
		if declaredExt, known := allowedImageTypes[declared]; known {
			contentType, ext, ok = declared, declaredExt, true
		}
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported image type %s", contentType)).
			WithDetails(map[string]any{"allowed": allowedTypeList()})
	}

	return &InlineImage{Data: data, ContentType: contentType, Extension: ext}, nil
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

func tooLarge(maxBytes int64) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "image exceeds upload limit").
		WithDetails(map[string]any{"max_bytes": maxBytes})
}

func allowedTypeList() []string {
	list := make([]string, 0, len(allowedImageTypes))
	for t := range allowedImageTypes {
		list = append(list, t)
	}
	sort.Strings(list)
	return list
}
