package app

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixbrock/ponygp/internal/domain"
	"github.com/google/uuid"
)

const (
	unsupportedFileTypeMsg = "File type not supported. Please upload a .csv file."
	uploadFailedMsg        = "There was an error uploading the file, please try again!"

	uploadField = "uploaded_file"
)

var ErrUnsupportedFileType = errors.New("unsupported file type error")

// isCSV reports whether name has the extension csv, ignoring case.
func isCSV(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext) == "csv"
}

// upload stores the dataset sent in the uploaded_file field, records its path
// in the session and redirects to the follow-up page. Requests without a file
// are ignored.
func (a App) upload(w http.ResponseWriter, r *http.Request) *AppError {
	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return get413().appError(err)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil
		default:
			return get400().appError(err)
		}
	}

	defer func() {
		err := file.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	name := filepath.Base(header.Filename)

	if !isCSV(name) {
		return &AppError{
			Error:   fmt.Errorf("%w: %s", ErrUnsupportedFileType, name),
			Message: unsupportedFileTypeMsg,
			Code:    http.StatusUnsupportedMediaType,
		}
	}

	return a.store(w, r, name, header.Size, file)
}

func (a App) store(w http.ResponseWriter, r *http.Request, name string, size int64, file multipart.File) *AppError {
	path, err := a.FileStore.Save(r.Context(), name, file)
	if err != nil {
		return &AppError{Error: err, Message: uploadFailedMsg, Code: http.StatusInternalServerError}
	}

	sessionId, setCookie, err := a.startSession(r)
	if err != nil {
		return &AppError{Error: err, Message: uploadFailedMsg, Code: http.StatusInternalServerError}
	}

	err = a.SessionRepo.Set(r.Context(), sessionId, filePathKey, path)
	if err != nil {
		return &AppError{Error: err, Message: uploadFailedMsg, Code: http.StatusInternalServerError}
	}

	slog.Info("dataset uploaded", "upload", domain.UploadedFile{
		Id:         uuid.New().String(),
		Name:       name,
		Path:       path,
		Size:       size,
		SessionId:  sessionId,
		UploadedAt: time.Now().UTC(),
	})

	setCookie(w)
	http.Redirect(w, r, a.Config.FollowUpPage, http.StatusSeeOther)

	return nil
}
