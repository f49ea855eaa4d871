package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError representa un error de validación de entrada
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError indica que la entidad no existe
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError indica que el deviceId no es dueño de la entidad
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// MediaUploadError envuelve un fallo del host de imágenes; aborta la operación completa
type MediaUploadError struct {
	Err error
}

func (e *MediaUploadError) Error() string {
	return "media upload failed: " + e.Err.Error()
}

func (e *MediaUploadError) Unwrap() error {
	return e.Err
}

// StoreError envuelve un fallo del almacén de documentos
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Forbidden(message string) error {
	return &ForbiddenError{Message: message}
}

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func MediaUpload(err error) error {
	return &MediaUploadError{Err: err}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// HTTPStatus traduce el error a un status y un mensaje visible.
// Los detalles internos (500) no se filtran al cliente; fallback es el
// mensaje genérico de la operación.
func HTTPStatus(err error, fallback string) (int, string) {
	var (
		ve *ValidationError
		nf *NotFoundError
		fb *ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.As(err, &fb):
		return http.StatusForbidden, fb.Message
	default:
		return http.StatusInternalServerError, fallback
	}
}
