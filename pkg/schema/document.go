package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Document wraps the raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// ReadDocument reads the payload behind src.
func ReadDocument(src Source) (Document, error) {
	var (
		raw []byte
		err error
	)
	switch s := src.(type) {
	case nil:
		return Document{}, errors.New("schema: source is required")
	case fileSource:
		raw, err = os.ReadFile(s.path)
	case fsSource:
		if s.fsys == nil {
			return Document{}, errors.New("schema: fs source has no filesystem")
		}
		raw, err = fs.ReadFile(s.fsys, s.name)
	default:
		return Document{}, fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}
	return NewDocument(src, raw)
}

// LoadSource reads src and extracts the form for operationID.
func LoadSource(ctx context.Context, src Source, operationID string) (Form, error) {
	doc, err := ReadDocument(src)
	if err != nil {
		return Form{}, err
	}
	return LoadDocument(ctx, doc, operationID)
}

// LoadDocument extracts the form for operationID from doc.
func LoadDocument(ctx context.Context, doc Document, operationID string) (Form, error) {
	form, err := Load(ctx, doc.raw, operationID)
	if err != nil {
		return Form{}, fmt.Errorf("%s: %w", doc.Location(), err)
	}
	return form, nil
}
