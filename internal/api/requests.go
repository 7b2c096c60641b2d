package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

const maxBodyBytes = 1 << 20

// CreateUserRequest is the payload for POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
}

func (r *CreateUserRequest) decodeForm(values url.Values) {
	r.Username = values.Get("username")
}

// AddExerciseRequest is the payload for POST /api/users/{id}/exercises.
// Duration is accepted as an alias for DurationMinutes.
type AddExerciseRequest struct {
	Description     string     `json:"description"`
	DurationMinutes flexString `json:"durationMinutes"`
	Duration        flexString `json:"duration"`
	Date            string     `json:"date"`
}

func (r *AddExerciseRequest) decodeForm(values url.Values) {
	r.Description = values.Get("description")
	r.DurationMinutes = flexString(values.Get("durationMinutes"))
	r.Duration = flexString(values.Get("duration"))
	r.Date = values.Get("date")
}

func (r AddExerciseRequest) duration() string {
	if r.DurationMinutes != "" {
		return string(r.DurationMinutes)
	}
	return string(r.Duration)
}

type formDecoder interface {
	decodeForm(url.Values)
}

// decodeRequest fills dst from a url-encoded or multipart form, or from a JSON body otherwise.
// An empty body leaves dst zeroed so that field validation reports what is missing.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst formDecoder) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return err
		}
		dst.decodeForm(r.PostForm)
		return nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return err
		}
		dst.decodeForm(r.PostForm)
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// flexString accepts a JSON string or number and keeps its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}
