package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// TrainingHandler holds the training service.
type TrainingHandler struct {
	trainingService services.TrainingService
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(ts services.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: ts}
}

// CreateCourse handles creating a course.
func (h *TrainingHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	course, err := h.trainingService.CreateCourse(req)
	if err != nil {
		if errors.Is(err, services.ErrTrainingValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "CreateCourse: Error from trainingService.CreateCourse")
			respondInternal(c, "Failed to create course.")
		}
		return
	}
	c.JSON(http.StatusCreated, course)
}

// GetCourses lists courses, optionally filtered by active flag.
func (h *TrainingHandler) GetCourses(c *gin.Context) {
	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query parameter 'is_active' must be a boolean.", ""))
			return
		}
		isActive = &parsed
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	courses, total, err := h.trainingService.GetCourses(isActive, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetCourses: Error from trainingService.GetCourses")
		respondInternal(c, "Failed to fetch courses.")
		return
	}
	respondList(c, courses, total, page, pageSize)
}

// GetCourseByID handles fetching a single course.
func (h *TrainingHandler) GetCourseByID(c *gin.Context) {
	courseID, ok := idParam(c)
	if !ok {
		return
	}

	course, err := h.trainingService.GetCourseByID(courseID)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Course not found.", ""))
		} else {
			utils.LogError(err, "GetCourseByID: Error from trainingService.GetCourseByID")
			respondInternal(c, "Failed to fetch course.")
		}
		return
	}
	c.JSON(http.StatusOK, course)
}

// UpdateCourse handles updating a course.
func (h *TrainingHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	course, err := h.trainingService.UpdateCourse(courseID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Course not found.", ""))
		case errors.Is(err, services.ErrTrainingValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "UpdateCourse: Error from trainingService.UpdateCourse")
			respondInternal(c, "Failed to update course.")
		}
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse handles deleting a course.
func (h *TrainingHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.trainingService.DeleteCourse(courseID); err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Course not found.", ""))
		case errors.Is(err, services.ErrTrainingValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		default:
			utils.LogError(err, "DeleteCourse: Error from trainingService.DeleteCourse")
			respondInternal(c, "Failed to delete course.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Enroll handles enrolling an employee into a course.
func (h *TrainingHandler) Enroll(c *gin.Context) {
	var req services.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	enrollment, err := h.trainingService.Enroll(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Course not found.", ""))
		case errors.Is(err, services.ErrAlreadyEnrolled):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee is already enrolled in this course.", ""))
		case errors.Is(err, services.ErrTrainingValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "Enroll: Error from trainingService.Enroll")
			respondInternal(c, "Failed to enroll employee.")
		}
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// GetEnrollments handles fetching enrollments with filters.
func (h *TrainingHandler) GetEnrollments(c *gin.Context) {
	var filters models.EnrollmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	enrollments, total, err := h.trainingService.GetEnrollments(filters)
	if err != nil {
		if errors.Is(err, services.ErrTrainingValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "GetEnrollments: Error from trainingService.GetEnrollments")
			respondInternal(c, "Failed to fetch enrollments.")
		}
		return
	}
	respondList(c, enrollments, total, filters.Page, filters.PageSize)
}

// GetEnrollmentByID handles fetching a single enrollment.
func (h *TrainingHandler) GetEnrollmentByID(c *gin.Context) {
	enrollmentID, ok := idParam(c)
	if !ok {
		return
	}

	enrollment, err := h.trainingService.GetEnrollmentByID(enrollmentID)
	if err != nil {
		if errors.Is(err, services.ErrEnrollmentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Enrollment not found.", ""))
		} else {
			utils.LogError(err, "GetEnrollmentByID: Error from trainingService.GetEnrollmentByID")
			respondInternal(c, "Failed to fetch enrollment.")
		}
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// CompleteEnrollment moves an enrollment to completed and issues its certificate.
func (h *TrainingHandler) CompleteEnrollment(c *gin.Context) {
	h.transitionEnrollment(c, h.trainingService.CompleteEnrollment, "CompleteEnrollment")
}

// CancelEnrollment moves an enrollment to cancelled.
func (h *TrainingHandler) CancelEnrollment(c *gin.Context) {
	h.transitionEnrollment(c, h.trainingService.CancelEnrollment, "CancelEnrollment")
}

func (h *TrainingHandler) transitionEnrollment(c *gin.Context, transition func(int64) (*models.Enrollment, error), action string) {
	enrollmentID, ok := idParam(c)
	if !ok {
		return
	}

	enrollment, err := transition(enrollmentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEnrollmentNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Enrollment not found.", ""))
		case errors.Is(err, services.ErrEnrollmentTransition):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		default:
			utils.LogError(err, action+": Error from trainingService")
			respondInternal(c, "Failed to change enrollment status.")
		}
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// GetCertificateByEnrollment handles fetching the certificate of an enrollment.
func (h *TrainingHandler) GetCertificateByEnrollment(c *gin.Context) {
	enrollmentID, ok := idParam(c)
	if !ok {
		return
	}

	certificate, err := h.trainingService.GetCertificateByEnrollment(enrollmentID)
	if err != nil {
		if errors.Is(err, services.ErrCertificateNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Certificate not found.", ""))
		} else {
			utils.LogError(err, "GetCertificateByEnrollment: Error from trainingService.GetCertificateByEnrollment")
			respondInternal(c, "Failed to fetch certificate.")
		}
		return
	}
	c.JSON(http.StatusOK, certificate)
}

// GetCertificateByCode handles public certificate verification by code.
func (h *TrainingHandler) GetCertificateByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Certificate code is required.", ""))
		return
	}

	certificate, err := h.trainingService.GetCertificateByCode(code)
	if err != nil {
		if errors.Is(err, services.ErrCertificateNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Certificate not found.", ""))
		} else {
			utils.LogError(err, "GetCertificateByCode: Error from trainingService.GetCertificateByCode")
			respondInternal(c, "Failed to fetch certificate.")
		}
		return
	}
	c.JSON(http.StatusOK, certificate)
}
