package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

var errNoFilePart = errors.New("file part not found")

// getUploadReader streams the named multipart part, or the whole body when
// the request is not multipart. The bool reports which case applied.
func getUploadReader(r *http.Request, fieldName string) (io.Reader, io.Closer, bool, error) {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(strings.ToLower(ct), "multipart/form-data") {
		mr, err := r.MultipartReader()
		if err != nil {
			return nil, nil, true, err
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, nil, true, err
			}
			if part.FormName() == fieldName {
				return part, part, true, nil
			}
			part.Close()
		}
		return nil, nil, true, errNoFilePart
	}

	return r.Body, r.Body, false, nil
}
