package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// Request describes one backend call.
type Request struct {
	Path        string
	Method      string
	Body        any
	Params      Params
	RequireAuth bool
	Multipart   bool
}

// Params are query parameters; every value is sent in its string form and nil values are dropped.
type Params map[string]any

// Optional adds key only when v is set, so unset filters never reach the query string.
func Optional[T any](p Params, key string, v *T) {
	if v != nil {
		p[key] = *v
	}
}

// Encode renders the params as a URL-encoded query string sorted by key.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range p {
		if v == nil {
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}

// Form is a multipart body: plain fields plus file parts.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	content         []byte
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a field.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// SetIf appends a field only when value is not empty.
func (f *Form) SetIf(name, value string) *Form {
	if value != "" {
		f.Set(name, value)
	}
	return f
}

// File appends a file part.
func (f *Form) File(field, filename string, content []byte) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

// Upload is a file received from the browser and forwarded to the backend.
type Upload struct {
	Filename string
	Content  []byte
}

// Attach appends u under field when it is set.
func (f *Form) Attach(field string, u *Upload) *Form {
	if u != nil && len(u.Content) > 0 {
		f.File(field, u.Filename, u.Content)
	}
	return f
}

// Value returns the first value set for name.
func (f *Form) Value(name string) (string, bool) {
	for _, fld := range f.fields {
		if fld.name == name {
			return fld.value, true
		}
	}
	return "", false
}

// Files returns the filenames attached under field.
func (f *Form) Files(field string) []string {
	var names []string
	for _, ff := range f.files {
		if ff.field == field {
			names = append(names, ff.filename)
		}
	}
	return names
}

func (f *Form) encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}
	for _, ff := range f.files {
		part, err := w.CreateFormFile(ff.field, ff.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(ff.content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

var errNotAForm = errors.New("multipart request body must be *api.Form")

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Multipart {
		if req.Body == nil {
			return NewForm().encode()
		}
		form, ok := req.Body.(*Form)
		if !ok {
			return nil, "", errNotAForm
		}
		return form.encode()
	}
	if req.Body == nil {
		return nil, "application/json", nil
	}
	b, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}
