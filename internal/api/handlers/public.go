package handlers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/unicorn-byte/emergency-card/internal/logger"
	"github.com/unicorn-byte/emergency-card/internal/render"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
	"github.com/unicorn-byte/emergency-card/internal/utils"
	"go.uber.org/zap"
)

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RedirectToCardView sends QR scanners to the HTML view.
// GET /emergency/{publicID}
func RedirectToCardView(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("publicID")
	http.Redirect(w, r, fmt.Sprintf("/emergency/%s/view", publicID), http.StatusFound)
}

// GetPublicCard godoc
// @Summary Public card as JSON
// @Description Resolves a public id to its visibility-filtered card. No authentication; every hit is audited.
// @Tags Public
// @Produce json
// @Param publicID path string true "Public card id"
// @Success 200 {object} utils.Payload "Disclosed card"
// @Failure 404 {object} utils.Payload "Emergency card not found"
// @Router /api/emergency/{publicID} [get]
func GetPublicCard(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("publicID")

	profile, err := repositories.GetProfileByPublicID(repositories.DB, publicID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency card not found",
		})
		return
	}
	if err != nil {
		logger.L.Error("public card lookup failed", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load card",
		})
		return
	}

	auditor.Record(publicID, clientIP(r), r.UserAgent())

	contacts, err := repositories.ListContacts(repositories.DB, profile.UserID)
	if err != nil {
		logger.L.Error("public card contacts lookup failed", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load card",
		})
		return
	}

	view := projector.Project(profile, contacts)

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Card retrieved successfully",
		Data:    view,
	})
}

// ViewCardHTML renders the first-responder card page.
// GET /emergency/{publicID}/view
func ViewCardHTML(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("publicID")

	profile, err := repositories.GetProfileByPublicID(repositories.DB, publicID)
	if errors.Is(err, repositories.ErrNotFound) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, "<h1>Emergency Card Not Found</h1>")
		return
	}
	if err != nil {
		http.Error(w, "Failed to load card", http.StatusInternalServerError)
		return
	}

	auditor.Record(publicID, clientIP(r), r.UserAgent())

	contacts, err := repositories.ListContacts(repositories.DB, profile.UserID)
	if err != nil {
		http.Error(w, "Failed to load card", http.StatusInternalServerError)
		return
	}

	view := projector.Project(profile, contacts)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.CardHTML(w, view); err != nil {
		logger.L.Error("failed to render card page", zap.Error(err))
	}
}

// DownloadCardPDF streams the printable wallet card.
// GET /emergency/{publicID}/pdf
func DownloadCardPDF(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("publicID")

	profile, err := repositories.GetProfileByPublicID(repositories.DB, publicID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Emergency card not found",
		})
		return
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load card",
		})
		return
	}

	auditor.Record(publicID, clientIP(r), r.UserAgent())

	contacts, err := repositories.ListContacts(repositories.DB, profile.UserID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load card",
		})
		return
	}

	view := projector.Project(profile, contacts)
	pdfBytes, err := render.CardPDF(view, publicURL(publicID))
	if err != nil {
		logger.L.Error("failed to render public card PDF", zap.Error(err))
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to generate card",
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=emergency_card_%s.pdf", publicID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
