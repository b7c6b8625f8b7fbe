package app

import "net/http"

type errCtx struct {
	Code  int
	Title string
	Msg   string
}

func get400() errCtx {
	return errCtx{
		Code:  http.StatusBadRequest,
		Title: "Bad request",
		Msg:   "Sorry, we could not read the request.",
	}
}

func get404() errCtx {
	return errCtx{
		Code:  http.StatusNotFound,
		Title: "Not found",
		Msg:   "Sorry, we couldn't find the page you were looking for.",
	}
}

func get413() errCtx {
	return errCtx{
		Code:  http.StatusRequestEntityTooLarge,
		Title: "Request too large",
		Msg:   "The uploaded file is too large.",
	}
}

func get429() errCtx {
	return errCtx{
		Code:  http.StatusTooManyRequests,
		Title: "Too many requests",
		Msg:   "Too many requests. Please wait a moment and try again.",
	}
}

func get500() errCtx {
	return errCtx{
		Code:  http.StatusInternalServerError,
		Title: "Internal server error",
		Msg:   "Sorry, there was an internal server error.",
	}
}

func (e errCtx) appError(err error) *AppError {
	return &AppError{Error: err, Message: e.Msg, Code: e.Code}
}
