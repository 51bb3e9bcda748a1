package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentportal/internal/app/models/dto"
	"github.com/yigit/studentportal/internal/app/services"
	"github.com/yigit/studentportal/internal/middleware"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
)

// Query parameters naming the student. The web client sends name_contactid.
const (
	ParamStudentID     = "studentId"
	ParamNameContactID = "name_contactid"
)

// CourseController serves the course status endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// studentID reads the first non-empty of params as a positive integer
func studentID(ctx *gin.Context, params ...string) (int64, error) {
	for _, param := range params {
		raw := ctx.Query(param)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return 0, apperrors.NewBadRequestError(param + " must be a positive integer")
		}
		return id, nil
	}
	return 0, apperrors.NewBadRequestError(params[0] + " query parameter is required")
}

// GetPursuingCourses lists courses the faculty marked as pursuing
// @Summary Pursuing courses
// @Tags courses
// @Produce json
// @Param name_contactid query int true "Student ID"
// @Success 200 {object} dto.CoursesResponse
// @Failure 400 {object} dto.ErrorResponse "Student ID missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/pursuing [get]
func (c *CourseController) GetPursuingCourses(ctx *gin.Context) {
	id, err := studentID(ctx, ParamNameContactID, ParamStudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courses, err := c.courseService.PursuingCourses(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CoursesResponse{Courses: dto.FromCourses(courses)})
}

// GetCompletedCourses lists completed courses from every source
// @Summary Completed courses
// @Tags courses
// @Produce json
// @Param studentId query int true "Student ID"
// @Success 200 {object} dto.CoursesResponse
// @Failure 400 {object} dto.ErrorResponse "Student ID missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/completed [get]
func (c *CourseController) GetCompletedCourses(ctx *gin.Context) {
	id, err := studentID(ctx, ParamStudentID, ParamNameContactID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courses, err := c.courseService.CompletedCourses(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CoursesResponse{Courses: dto.FromCourses(courses)})
}

// GetPendingCourses lists the subjects of the student's course not yet started
// @Summary Pending subjects
// @Tags courses
// @Produce json
// @Param studentId query int true "Student ID"
// @Success 200 {object} dto.CoursesResponse
// @Failure 400 {object} dto.ErrorResponse "Student ID missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/pending [get]
func (c *CourseController) GetPendingCourses(ctx *gin.Context) {
	id, err := studentID(ctx, ParamStudentID, ParamNameContactID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	subjects, err := c.courseService.PendingSubjects(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CoursesResponse{Courses: dto.FromSubjects(subjects)})
}

// GetCourseDetails returns the pursuing, completed and pending subjects of a course
// @Summary Course subject breakdown
// @Tags courses
// @Produce json
// @Param studentId query int true "Student ID (name_contactid is accepted too)"
// @Param course query string false "Course id or exact name; defaults to the student's course"
// @Success 200 {object} dto.CourseDetailsResponse
// @Failure 400 {object} dto.ErrorResponse "Student ID missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/details [get]
func (c *CourseController) GetCourseDetails(ctx *gin.Context) {
	id, err := studentID(ctx, ParamStudentID, ParamNameContactID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	details, err := c.courseService.CourseDetails(ctx.Request.Context(), id, ctx.Query("course"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CourseDetailsResponse{Success: true, Data: details})
}
