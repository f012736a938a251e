package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/selimk/coursecompass/internal/app/models/dto"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
)

// --- Central Error Handling Middleware/Function ---

// HandleAPIError maps service errors onto HTTP responses. Controllers call it
// instead of translating sentinel errors themselves.
func HandleAPIError(c *gin.Context, err error) {
	// Pull optional context added by the service layer.
	var custom *apperrors.CustomError
	var details map[string]interface{}
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
		details = custom.Details
	}

	switch {
	case apperrors.Is(err, apperrors.ErrCollegeNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrQuestionNotFound,
		apperrors.ErrRecommendationsNotFound,
		apperrors.ErrResourceNotFound):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
		c.JSON(404, dto.NewErrorResponse(errorDetail))

	case apperrors.Is(err, apperrors.ErrCollegeAlreadyExists,
		apperrors.ErrQuestionAlreadyExists,
		apperrors.ErrStudentAlreadyExists,
		apperrors.ErrResourceAlreadyExists,
		apperrors.ErrConflict):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
		c.JSON(409, dto.NewErrorResponse(errorDetail))

	case apperrors.Is(err, apperrors.ErrUnknownQuestionIDs,
		apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest):
		if message == "" {
			message = err.Error()
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
		if details != nil {
			errorDetail = errorDetail.WithDetails(details)
		}
		c.JSON(400, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrCatalogFetch):
		// The fetch detail was already logged; the caller only needs to know
		// this is a retryable upstream problem.
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeExternalServiceError,
			"Failed to fetch course list from the college. Please try again later.")
		c.JSON(502, dto.NewErrorResponse(errorDetail))

	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(500, dto.NewErrorResponse(errorDetail))
	}
}
