package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/saikojosh/Foval"
)

// maxMultipartMemory bounds in-memory buffering of multipart bodies; larger
// file parts spill to disk.
const maxMultipartMemory = 10 << 20

// ExtractValues flattens a request body into the raw value bag the
// validation engine consumes. Urlencoded and multipart forms keep their keys
// verbatim (including name[subKey] hash-field keys), multi-value keys become
// string slices, and multipart file parts become foval.FileMeta with the
// file content read up front. JSON bodies are decoded as a flat object.
func ExtractValues(r *http.Request) (foval.Values, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil, fmt.Errorf("%w: expected a form or JSON body", ErrMissingContentType)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingContentType, err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		return flattenForm(r.PostForm), nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		values := flattenForm(r.MultipartForm.Value)
		if err := addFileParts(values, r); err != nil {
			return nil, err
		}
		return values, nil

	case "application/json":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		values := make(foval.Values, len(body))
		for k, v := range body {
			values[k] = v
		}
		return values, nil

	default:
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedMediaType, mediaType)
	}
}

func flattenForm(form map[string][]string) foval.Values {
	values := make(foval.Values, len(form))
	for key, entries := range form {
		switch len(entries) {
		case 0:
			values[key] = ""
		case 1:
			values[key] = entries[0]
		default:
			values[key] = entries
		}
	}
	return values
}

func addFileParts(values foval.Values, r *http.Request) error {
	for key, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		header := headers[0]

		file, err := header.Open()
		if err != nil {
			return fmt.Errorf("%w: open file part %q: %v", ErrInvalidForm, key, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("%w: read file part %q: %v", ErrInvalidForm, key, err)
		}

		values[key] = foval.FileMeta{
			Filename: header.Filename,
			Size:     header.Size,
			Mime:     header.Header.Get("Content-Type"),
			Data:     data,
		}
	}
	return nil
}
