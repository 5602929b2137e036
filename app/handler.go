package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/sushihentaime/diarist/internal/common"
	"github.com/sushihentaime/diarist/internal/entryservice"
	"github.com/sushihentaime/diarist/internal/imageservice"
)

func (app *application) createEntryHandler(w http.ResponseWriter, r *http.Request) {
	var input entryservice.CreateEntryRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the entry service
	entry, err := app.entryService.CreateEntry(r.Context(), &input)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeSuccess(w, http.StatusCreated, "entry created", entry)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listEntriesHandler(w http.ResponseWriter, r *http.Request) {
	req, err := app.readListParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	list, err := app.entryService.GetEntries(r.Context(), req)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeSuccess(w, http.StatusOK, "entries retrieved", list)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listEntriesByDateHandler(w http.ResponseWriter, r *http.Request) {
	date, err := app.readDateParam(r, "date")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	entries, err := app.entryService.GetEntriesByDate(r.Context(), date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeSuccess(w, http.StatusOK, "entries retrieved", entries)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getEntryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	entry, err := app.entryService.GetEntryByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeSuccess(w, http.StatusOK, "entry retrieved", entry)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updateEntryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input entryservice.UpdateEntryRequest

	// Parse the request body
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	entry, err := app.entryService.UpdateEntry(r.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeSuccess(w, http.StatusOK, "entry updated", entry)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	deleted, err := app.entryService.DeleteEntry(r.Context(), id)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !deleted {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.writeSuccess(w, http.StatusOK, "entry deleted", nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	entryID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// the service enforces the 10MB ceiling; the reader only guards the
	// request body as a whole
	r.Body = http.MaxBytesReader(w, r.Body, int64(imageservice.MaxImageBytes)+1_048_576)

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("request must contain an image file in the 'image' form field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	image, err := app.imageService.Upload(r.Context(), &imageservice.UploadImageRequest{
		EntryID:  entryID,
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, imageservice.ErrEntryForeignKey):
			app.failedValidationErrorResponse(w, r, map[string]string{"entry_id": "an entry with this id does not exist"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeSuccess(w, http.StatusCreated, "image uploaded", image)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	data, err := app.imageService.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (app *application) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	deleted, err := app.imageService.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !deleted {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.writeSuccess(w, http.StatusOK, "image deleted", nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
