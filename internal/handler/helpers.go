package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"groove/internal/middleware"
	"groove/internal/model"
	"groove/internal/ordering"
	"groove/internal/reorder"
	"groove/internal/repository"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("anchor", validAnchor); err != nil {
			panic("handler: register anchor validation: " + err.Error())
		}
	}
}

// validAnchor accepts the end marker or a uuid; an empty value means "start".
func validAnchor(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || s == reorder.EndMarker {
		return true
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// bindJSON decodes the body into req and answers 400 with one message per
// invalid field when it does not validate.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return false
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "fields": fields})
	return false
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid id"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "anchor":
		return `must be a sibling id or "` + reorder.EndMarker + `"`
	default:
		return "is invalid"
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return userID, ok
}

func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// requireRole answers 404 when the board is gone and 403 when the user's
// role on it is below required.
func requireRole(c *gin.Context, access AccessChecker, boardID, userID uuid.UUID, required string) (string, bool) {
	role, err := access.Role(c.Request.Context(), boardID, userID)
	if errors.Is(err, repository.ErrBoardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return "", false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board access"})
		return "", false
	}
	if !model.RoleAllows(role, required) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return role, false
	}
	return role, true
}

// respondMoveError maps reorder failures to responses the client can act on:
// refresh for gone or stale data, retry for lost races.
func respondMoveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reorder.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item no longer exists, please refresh"})
	case errors.Is(err, reorder.ErrStale):
		c.JSON(http.StatusConflict, gin.H{"error": "Board changed since it was loaded, please refresh"})
	case errors.Is(err, reorder.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Another move is in progress, please retry"})
	case errors.Is(err, reorder.ErrInvalidAnchor), errors.Is(err, ordering.ErrInvalidNeighbors):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid drop position"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move"})
	}
}

// Journal writes the board activity feed. Outside a move transaction a
// failed write is logged and does not fail the request.
type Journal struct {
	activities ActivityLog
	logger     *log.Logger
}

func NewJournal(activities ActivityLog, logger *log.Logger) Journal {
	return Journal{activities: activities, logger: logger}
}

func (j Journal) record(c *gin.Context, boardID, actorID uuid.UUID, kind string, payload map[string]interface{}) {
	if _, err := j.activities.Record(c.Request.Context(), boardID, actorID, kind, payload); err != nil {
		j.logger.Warn("failed to record activity", "kind", kind, "board", boardID, "err", err)
	}
}
