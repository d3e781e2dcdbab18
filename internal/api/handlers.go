/**
 * @description
 * This file contains the HTTP handlers for the dashboard's read endpoints.
 * The home endpoint returns the authenticated user's account snapshot as
 * JSON; the profile endpoint serves the HTML shell that renders it. Both are
 * strictly read-only: the web layer never mutates account state.
 *
 * @dependencies
 * - encoding/json, log, net/http, path/filepath: Standard Go libraries.
 * - internal/app, internal/domain: For the snapshot service and models.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"

	"github.com/nilebank/ledger-service/internal/app"
	"github.com/nilebank/ledger-service/internal/domain"
)

// DashboardHandlers holds the ledger service the read endpoints query.
type DashboardHandlers struct {
	service   *app.Service
	publicDir string
}

// profileResponse mirrors the JSON shape the dashboard frontend renders.
type profileResponse struct {
	Message       string `json:"message"`
	Status        string `json:"status"`
	Username      string `json:"username"`
	ReceiveNumber string `json:"receiveNumber"`
	SendNumber    string `json:"sendNumber"`
	TaxAmount     string `json:"taxAmount"`
	ID            string `json:"id"`
	Avatar        string `json:"avatar"`
	Balance       int64  `json:"balance"`
}

// NewDashboardHandlers creates a new instance of DashboardHandlers.
func NewDashboardHandlers(service *app.Service, publicDir string) *DashboardHandlers {
	return &DashboardHandlers{service: service, publicDir: publicDir}
}

// HomeHandler returns the authenticated user's full account snapshot.
func (h *DashboardHandlers) HomeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), identity.ID)
	if err != nil {
		log.Printf("level=error component=api endpoint=home msg=\"snapshot failed\" user_id=%s err=%v", identity.ID, err)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, profileResponse{
		Message:       "تم تسجيل الدخول بنجاح!",
		Status:        "success",
		Username:      identity.Username,
		ReceiveNumber: orUnavailable(snapshot.ReceiveNumber),
		SendNumber:    orUnavailable(snapshot.SendNumber),
		TaxAmount:     orUnavailable(snapshot.TaxAmount),
		ID:            identity.ID,
		Avatar:        identity.AvatarURL(),
		Balance:       snapshot.Balance,
	})
}

// ProfileHandler serves the profile page shell for an authenticated session.
func (h *DashboardHandlers) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := IdentityFromContext(r.Context()); !ok {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.publicDir, "profile.html"))
}

func (h *DashboardHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func orUnavailable(value string) string {
	if value == "" {
		return domain.PlaceholderUnavailable
	}
	return value
}
