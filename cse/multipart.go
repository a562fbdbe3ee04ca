package cse

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

type multipartPart struct {
	field    string
	filePath string
	value    string
}

// Multipart is a multipart/form-data request body made of files and plain fields, sent in
// the order they were added.
type Multipart struct {
	parts []multipartPart
}

// AddFile adds the contents of a file under the given form field. The file is read when the
// request is sent.
func (m *Multipart) AddFile(field, path string) *Multipart {
	m.parts = append(m.parts, multipartPart{field: field, filePath: path})
	return m
}

// AddField adds a plain form field.
func (m *Multipart) AddField(field, value string) *Multipart {
	m.parts = append(m.parts, multipartPart{field: field, value: value})
	return m
}

func (m *Multipart) encode() (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for _, p := range m.parts {
		if p.filePath == "" {
			if err := w.WriteField(p.field, p.value); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := writeFilePart(w, p.field, p.filePath); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
