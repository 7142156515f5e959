package httpapi

import (
	"errors"
	"io"
	"net/http"

	"restoledger/backend/internal/domain"
)

func (a *API) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	view, err := a.service.View(r.Context(), outletFromQuery(r), viewOptionsFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	dashboard, err := a.service.Dashboard(r.Context(), outletFromQuery(r), viewOptionsFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (a *API) handleCostedMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	menu, err := a.service.CostedMenu(r.Context(), outletFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu": menu})
}

func (a *API) handleRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	rankings, err := a.service.Rankings(r.Context(), outletFromQuery(r), viewOptionsFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rankings": rankings})
}

func (a *API) handleProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	pnl, err := a.service.ProfitAndLoss(r.Context(), outletFromQuery(r), viewOptionsFromQuery(r).PeriodDays)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pnl)
}

func (a *API) handleWasteSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	summary, err := a.service.WasteSummary(r.Context(), outletFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *API) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	notifications, err := a.service.Notifications(r.Context(), outletFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	unread := 0
	for _, notification := range notifications {
		if !notification.Read {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications, "unread": unread})
}

// handleNotificationActions serves /notifications/read-all and
// /notifications/{id}/read.
func (a *API) handleNotificationActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	parts := pathParts(r, "/api/v1/notifications/")
	switch {
	case len(parts) == 1 && parts[0] == "read-all":
		marked, err := a.service.MarkAllNotificationsRead(r.Context(), outletFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"marked": marked})
	case len(parts) == 2 && parts[1] == "read":
		if err := a.service.MarkNotificationRead(r.Context(), parts[0]); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"read": parts[0]})
	default:
		writeError(w, http.StatusBadRequest, errors.New("invalid notification action path"))
	}
}

func (a *API) handleCampaignSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req domain.CampaignSuggestRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	suggestion, err := a.service.SuggestCampaign(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestion": suggestion})
}

// handleActiveCampaign reads, launches (PUT) or ends (DELETE) the single
// active campaign.
func (a *API) handleActiveCampaign(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		campaign, err := a.service.ActiveCampaign(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaign": campaign})
	case http.MethodPut:
		var req domain.CampaignLaunchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		campaign, err := a.service.LaunchCampaign(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"campaign": campaign})
	case http.MethodDelete:
		if err := a.service.EndCampaign(r.Context()); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"campaign": nil})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCampaignPerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	performance, err := a.service.CampaignPerformance(r.Context(), outletFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"performance": performance})
}
