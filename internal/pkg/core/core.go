package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/pkg/errorx"
	"github.com/kiosk404/andalem/pkg/logger"
)

// ErrResponse defines the return messages when an error occurred.
type ErrResponse struct {
	// Code defines the business error code.
	Code int `json:"code"`

	// Message contains the external message of the error code.
	Message string `json:"message"`

	// Detail is the short, non-leaking explanation attached at the failure site.
	Detail string `json:"detail,omitempty"`

	// Reference returns the reference document which maybe useful to solve this error.
	Reference string `json:"reference,omitempty"`
}

// WriteResponse writes an error or the response data into the http response body.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err != nil {
		logger.Error("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		coder := errorx.ParseCoder(err)
		c.JSON(coder.HTTPStatus(), ErrResponse{
			Code:      coder.Code(),
			Message:   coder.String(),
			Detail:    errorx.Message(err),
			Reference: coder.Reference(),
		})
		return
	}

	c.JSON(http.StatusOK, data)
}
