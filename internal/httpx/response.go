// Package httpx centraliza el sobre uniforme de respuesta:
// {success, data?, error?, count?, message?}
package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"riftory-api/internal/apperr"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK responde 200 con data
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// OKMessage responde 200 con data y mensaje
func OKMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Message: message})
}

// OKList responde 200 con data y count (count sale aunque sea 0)
func OKList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

// Created responde 201 con data
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Message responde 200 sólo con mensaje
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// Fail responde el status dado con success:false
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// Error traduce el error de la operación al sobre. Los errores
// inesperados devuelven el mensaje genérico; el detalle interno sólo
// se loguea, nunca se filtra al cliente.
func Error(c *gin.Context, err error, fallback string) {
	status, message := apperr.HTTPStatus(err, fallback)
	if status == http.StatusInternalServerError {
		zap.S().Errorw(fallback, "path", c.FullPath(), "error", err)
	}
	Fail(c, status, message)
}
