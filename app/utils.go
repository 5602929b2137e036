package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/diarist/internal/entryservice"
)

type envelope map[string]any

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	json, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(json)

	return nil
}

// writeSuccess wraps the payload in the success/message/data envelope.
func (app *application) writeSuccess(w http.ResponseWriter, status int, message string, data any) error {
	return app.writeJSON(w, status, envelope{"success": true, "message": message, "data": data}, nil)
}

func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("request body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("request body contains an invalid value for the %q field", unmarshalTypeError.Field)
			}
			return fmt.Errorf("request body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("request body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("request body contains unknown field %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("request body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}
	err = decoder.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("request body must only contain a single JSON value")
	}
	return nil
}

func (app *application) readIDParam(r *http.Request, key string) (int, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.Atoi(params.ByName(key))
	if err != nil {
		return 0, errors.New("invalid ID parameter")
	}

	return id, nil
}

func (app *application) readDateParam(r *http.Request, key string) (time.Time, error) {
	params := httprouter.ParamsFromContext(r.Context())

	date, err := time.Parse(time.DateOnly, params.ByName(key))
	if err != nil {
		return time.Time{}, errors.New("invalid date parameter, expected YYYY-MM-DD")
	}

	return date, nil
}

// readListParams reads the page, page_size, sort and date query parameters.
// Out-of-range values are left to the service to coerce; only unparseable
// ones are rejected.
func (app *application) readListParams(r *http.Request) (entryservice.ListEntriesRequest, error) {
	query := r.URL.Query()

	req := entryservice.ListEntriesRequest{Sort: query.Get("sort")}

	if s := query.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, errors.New("invalid page parameter")
		}
		req.Page = n
	}

	if s := query.Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, errors.New("invalid page_size parameter")
		}
		req.PageSize = n
	}

	if s := query.Get("date"); s != "" {
		date, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return req, errors.New("invalid date parameter, expected YYYY-MM-DD")
		}
		req.FilterDate = &date
	}

	return req, nil
}
