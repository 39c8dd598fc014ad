package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/unicorn-byte/emergency-card/internal/config"
	"github.com/unicorn-byte/emergency-card/internal/logger"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"github.com/unicorn-byte/emergency-card/internal/render"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
	"github.com/unicorn-byte/emergency-card/internal/utils"
	"go.uber.org/zap"
)

func publicURL(publicID string) string {
	return fmt.Sprintf("%s/emergency/%s", config.Envs.PublicBaseURL, publicID)
}

// CreateProfile godoc
// @Summary Create the caller's emergency profile
// @Description Creates the single profile a user may own and allocates its public id. Medical fields are comma-delimited text and are stored encrypted.
// @Tags Profile
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload "Profile created"
// @Failure 409 {object} utils.Payload "Profile already exists"
// @Router /api/v1/profile [post]
func CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input repositories.ProfileInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	profile, err := repositories.CreateProfile(repositories.DB, envelope, userID, input)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrConflict):
		utils.JSONResponse(w, http.StatusConflict, utils.Payload{
			Success: false,
			Message: "Emergency profile already exists",
		})
		return
	default:
		logger.L.Error("failed to create profile", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create profile",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Profile created successfully",
		Data:    profile,
	})
}

// GetMyProfile godoc
// @Summary Retrieve the caller's emergency profile
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "Profile not found"
// @Router /api/v1/profile [get]
func GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := repositories.GetProfileByUser(repositories.DB, userID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency profile not found",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    profile,
	})
}

// UpdateProfile godoc
// @Summary Partially update the caller's emergency profile
// @Description Only supplied fields change. Supplying an empty medical field clears it; omitting it leaves the stored ciphertext untouched.
// @Tags Profile
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "Profile not found"
// @Router /api/v1/profile [patch]
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var patch models.ProfilePatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	profile, err := repositories.UpdateProfile(repositories.DB, envelope, userID, patch)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency profile not found",
		})
		return
	default:
		logger.L.Error("failed to update profile", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to update profile",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile updated successfully",
		Data:    profile,
	})
}

// DeleteProfile godoc
// @Summary Delete the caller's emergency profile
// @Description The public id dies with the profile and is never reassigned.
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "Profile not found"
// @Router /api/v1/profile [delete]
func DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	err := repositories.DeleteProfile(repositories.DB, userID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency profile not found",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to delete profile",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile deleted successfully",
	})
}

// GetQRCode godoc
// @Summary QR code for the caller's public card URL
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.Payload "Base64 PNG, public URL and public id"
// @Failure 404 {object} utils.Payload "Profile not found"
// @Router /api/v1/profile/qr [get]
func GetQRCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := repositories.GetProfileByUser(repositories.DB, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency profile not found",
		})
		return
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	url := publicURL(profile.PublicID)
	encoded, err := render.QRCodeBase64(url)
	if err != nil {
		logger.L.Error("failed to render QR code", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to generate QR code",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "QR code generated successfully",
		Data: map[string]any{
			"qr_code_base64": encoded,
			"public_url":     url,
			"public_id":      profile.PublicID,
		},
	})
}

// GetCardDownload godoc
// @Summary Printable PDF card for the caller's profile
// @Description Renders the wallet card. With object storage configured the PDF is uploaded and a presigned download URL returned; otherwise the bytes stream directly.
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.Payload "Presigned download URL"
// @Failure 404 {object} utils.Payload "Profile not found"
// @Router /api/v1/profile/card [get]
func GetCardDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := repositories.GetProfileByUser(repositories.DB, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency profile not found",
		})
		return
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
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

	view := projector.Project(profile, contacts)
	pdfBytes, err := render.CardPDF(view, publicURL(profile.PublicID))
	if err != nil {
		logger.L.Error("failed to render card PDF", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to generate card",
		})
		return
	}

	if !repositories.AssetStoreEnabled() {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=emergency_card_%s.pdf", profile.PublicID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdfBytes)
		return
	}

	key := fmt.Sprintf("cards/%s.pdf", profile.PublicID)
	if err := repositories.UploadCardAsset(r.Context(), key, "application/pdf", pdfBytes); err != nil {
		logger.L.Error("failed to upload card asset", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to store card",
		})
		return
	}

	url, err := repositories.GenerateAssetDownloadURL(r.Context(), key, 15*time.Minute)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to generate download URL",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Card generated successfully",
		Data: map[string]any{
			"url":        url,
			"expires_in": "15m",
		},
	})
}
