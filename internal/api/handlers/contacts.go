package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
	"github.com/unicorn-byte/emergency-card/internal/utils"
)

// AddContact godoc
// @Summary Add an emergency contact
// @Description One phone number per user; duplicates are rejected.
// @Tags Contacts
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload "Contact added"
// @Failure 409 {object} utils.Payload "Contact with this phone already exists"
// @Router /api/v1/profile/contacts [post]
func AddContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input struct {
		Name     string `json:"name"`
		Relation string `json:"relation"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Priority int    `json:"priority"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	if input.Name == "" || input.Relation == "" || input.Phone == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Name, relation and phone are required",
		})
		return
	}
	if input.Priority == 0 {
		input.Priority = 1
	}

	contact := &models.EmergencyContact{
		UserID:   userID,
		Name:     input.Name,
		Relation: input.Relation,
		Phone:    input.Phone,
		Email:    input.Email,
		Priority: input.Priority,
	}

	err := repositories.AddContact(repositories.DB, contact)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrConflict):
		utils.JSONResponse(w, http.StatusConflict, utils.Payload{
			Success: false,
			Message: "Emergency contact with this phone number already exists",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to add contact",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Contact added successfully",
		Data:    contact,
	})
}

// ListContacts godoc
// @Summary List the caller's emergency contacts
// @Description Sorted by priority ascending; ties keep insertion order.
// @Tags Contacts
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/profile/contacts [get]
func ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	contacts, err := repositories.ListContacts(repositories.DB, userID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Contacts retrieved successfully",
		Data:    contacts,
	})
}

// DeleteContact godoc
// @Summary Delete one of the caller's emergency contacts
// @Description A contact id belonging to another user is indistinguishable from a missing one.
// @Tags Contacts
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "Contact not found"
// @Router /api/v1/profile/contacts/{contactID} [delete]
func DeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	contactID, err := uuid.Parse(r.PathValue("contactID"))
	if err != nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency contact not found",
		})
		return
	}

	err = repositories.DeleteContact(repositories.DB, userID, contactID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency contact not found",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to delete contact",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Contact deleted successfully",
	})
}
