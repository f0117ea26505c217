package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// statusFor maps a domain error kind to its HTTP status; anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, utils.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// the real cause goes to the log, not the client
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, errorResponse{Detail: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, errorResponse{Detail: err.Error()})
}

// respondBindError reports a request that failed binding or validation as 400.
func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: bindErrorDetail(err)})
}

func bindErrorDetail(err error) string {
	fields := utils.ProcessValidationErrors(err)
	if len(fields) == 0 {
		return "invalid request: " + err.Error()
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", name, fields[name]))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}
