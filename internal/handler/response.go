package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps a service error onto the wire. AppError messages are
// user-safe by construction; anything else becomes an opaque 500. External
// service detail stays in server logs only.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		msg := appErr.Message
		if appErr.Code == apperrors.ErrExternalService {
			log.Error().Err(appErr.Err).Str("request_id", c.GetString("request_id")).Msg("external service failure")
			msg = "failed to place call"
		}
		c.JSON(appErr.Code.HTTPStatus(), NewErrorResponse(msg))
		return
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
}
