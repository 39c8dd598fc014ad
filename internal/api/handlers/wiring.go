package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/unicorn-byte/emergency-card/internal/api/middleware"
	"github.com/unicorn-byte/emergency-card/internal/audit"
	"github.com/unicorn-byte/emergency-card/internal/crypto"
	"github.com/unicorn-byte/emergency-card/internal/disclosure"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
	"github.com/unicorn-byte/emergency-card/internal/utils"
	"gorm.io/gorm"
)

// Shared collaborators, set once at startup. The envelope and auditor are
// constructed in main so tests can wire their own.
var (
	envelope  *crypto.Envelope
	projector *disclosure.Projector
	auditor   *audit.Auditor
)

// Init wires the handlers to their collaborators.
func Init(env *crypto.Envelope, a *audit.Auditor) {
	envelope = env
	projector = disclosure.NewProjector(env)
	auditor = a
}

// currentUserID extracts and parses the authenticated user id. Writes the
// uniform 401 itself when absent or malformed.
func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr, ok := middleware.UserID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser loads the authenticated user's record. A token naming a
// deleted or deactivated account gets the same uniform 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := currentUserID(w, r)
	if !ok {
		return nil, false
	}

	var user models.User
	err := repositories.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !user.IsActive) {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return nil, false
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return nil, false
	}
	return &user, true
}
