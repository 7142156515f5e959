package httpapi

import (
	"errors"
	"net/http"

	"restoledger/backend/internal/domain"
)

func (a *API) handleOutlets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		outlets, err := a.service.ListOutlets(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		selected, err := a.service.SelectedOutlet(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"outlets": outlets, "selected_outlet_id": selected})
	case http.MethodPost:
		var req domain.OutletCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		outlet, err := a.service.CreateOutlet(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"outlet": outlet})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSelectedOutlet(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		selected, err := a.service.SelectedOutlet(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"selected_outlet_id": selected})
	case http.MethodPut:
		var req domain.OutletSelectRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := a.service.SelectOutlet(r.Context(), req.OutletID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"selected_outlet_id": req.OutletID})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOutletActions(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/outlets/")
	if len(parts) != 1 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid outlet path"))
		return
	}
	outletID := parts[0]

	switch r.Method {
	case http.MethodPatch:
		var req domain.OutletRenameRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		outlet, err := a.service.RenameOutlet(r.Context(), outletID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"outlet": outlet})
	case http.MethodDelete:
		result, err := a.service.DeleteOutlet(r.Context(), outletID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeGuardResult(w, result)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleIngredients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ingredients, err := a.service.ListIngredients(r.Context(), outletFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ingredients": ingredients})
	case http.MethodPost:
		var req domain.IngredientCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ingredient, err := a.service.CreateIngredient(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ingredient": ingredient})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleIngredientActions(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/ingredients/")
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid ingredient path"))
		return
	}
	ingredientID := parts[0]

	if len(parts) == 2 {
		if parts[1] != "receive" || r.Method != http.MethodPost {
			writeError(w, http.StatusBadRequest, errors.New("invalid ingredient action path"))
			return
		}
		var req domain.StockReceiptRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ingredient, err := a.service.ReceiveStock(r.Context(), ingredientID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ingredient": ingredient})
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req domain.IngredientUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ingredient, err := a.service.UpdateIngredient(r.Context(), ingredientID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ingredient": ingredient})
	case http.MethodDelete:
		result, err := a.service.DeleteIngredient(r.Context(), ingredientID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeGuardResult(w, result)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleMenuItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := a.service.ListMenuItems(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"menu_items": items})
	case http.MethodPost:
		var req domain.MenuItemCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		item, err := a.service.CreateMenuItem(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"menu_item": item})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleMenuItemActions(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/menu-items/")
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid menu item path"))
		return
	}
	menuItemID := parts[0]

	if len(parts) == 2 {
		if parts[1] != "recipe" || r.Method != http.MethodPut {
			writeError(w, http.StatusBadRequest, errors.New("invalid menu item action path"))
			return
		}
		var req domain.RecipeReplaceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		item, err := a.service.ReplaceRecipe(r.Context(), menuItemID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"menu_item": item})
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req domain.MenuItemUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		item, err := a.service.UpdateMenuItem(r.Context(), menuItemID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"menu_item": item})
	case http.MethodDelete:
		if err := a.service.DeleteMenuItem(r.Context(), menuItemID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": menuItemID})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sales, err := a.service.ListSales(r.Context(), outletFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sales": sales})
	case http.MethodPost:
		var req domain.SaleRecordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		sale, err := a.service.RecordSale(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"sale": sale})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOperationalCosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		costs, err := a.service.ListOperationalCosts(r.Context(), outletFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"operational_costs": costs})
	case http.MethodPost:
		var req domain.OperationalCostCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		cost, err := a.service.CreateOperationalCost(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"operational_cost": cost})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOperationalCostActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}
	parts := pathParts(r, "/api/v1/operational-costs/")
	if len(parts) != 1 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, errors.New("operational cost id required"))
		return
	}
	if err := a.service.DeleteOperationalCost(r.Context(), parts[0]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": parts[0]})
}

func (a *API) handleWaste(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		waste, err := a.service.ListWaste(r.Context(), outletFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"waste": waste})
	case http.MethodPost:
		var req domain.WasteRecordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		record, err := a.service.RecordWaste(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"waste": record})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleWasteActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}
	parts := pathParts(r, "/api/v1/waste/")
	if len(parts) != 1 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, errors.New("waste id required"))
		return
	}
	if err := a.service.DeleteWaste(r.Context(), parts[0]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": parts[0]})
}

func (a *API) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		suppliers, err := a.service.ListSuppliers(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
	case http.MethodPost:
		var req domain.SupplierCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		supplier, err := a.service.CreateSupplier(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"supplier": supplier})
	default:
		writeMethodNotAllowed(w)
	}
}

// handleSupplierActions serves /suppliers/{id}, /suppliers/{id}/prices and
// /suppliers/{id}/prices/{ingredientID}.
func (a *API) handleSupplierActions(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/suppliers/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 3 || (len(parts) > 1 && parts[1] != "prices") {
		writeError(w, http.StatusBadRequest, errors.New("invalid supplier path"))
		return
	}
	supplierID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		result, err := a.service.DeleteSupplier(r.Context(), supplierID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeGuardResult(w, result)
	case len(parts) == 2 && r.Method == http.MethodGet:
		prices, err := a.service.ListSupplierPrices(r.Context(), supplierID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"prices": prices})
	case len(parts) == 2 && r.Method == http.MethodPut:
		var req domain.SupplierPriceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		price, err := a.service.UpsertSupplierPrice(r.Context(), supplierID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"price": price})
	case len(parts) == 3 && r.Method == http.MethodDelete:
		if err := a.service.DeleteSupplierPrice(r.Context(), supplierID, parts[2]); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": parts[2]})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePendingOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		orders, err := a.service.ListPendingOrders(r.Context(), outletFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"pending_orders": orders})
	case http.MethodPost:
		var req domain.PendingOrderCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := a.service.CreatePendingOrder(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"pending_order": order})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePendingOrderActions(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/pending-orders/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
		writeError(w, http.StatusBadRequest, errors.New("invalid pending order path"))
		return
	}
	orderID := parts[0]

	switch {
	case len(parts) == 2 && parts[1] == "receive" && r.Method == http.MethodPost:
		order, err := a.service.ReceivePendingOrder(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"received": order})
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if err := a.service.CancelPendingOrder(r.Context(), orderID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cancelled": orderID})
	default:
		writeMethodNotAllowed(w)
	}
}
