package api

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/staff_scheduler/internal/service"
)

func (h *Handlers) ListStaff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.staff.ListStaff(r.Context(), page, limit)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch staff")
		return
	}

	view := staffPageView{
		Items:      make([]staffView, 0, len(result.Items)),
		Pagination: result.Pagination,
	}
	for _, s := range result.Items {
		view.Items = append(view.Items, newStaffView(s))
	}

	h.ok(w, http.StatusOK, "Staff fetched successfully", view)
}

func (h *Handlers) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err, "Failed to create staff")
		return
	}

	staff, err := h.staff.CreateStaff(r.Context(), service.CreateStaffInput{
		Name:         req.Name,
		Email:        req.Email,
		Availability: availabilityInput(req.Availability),
	})
	if err != nil {
		h.fail(w, r, err, "Failed to create staff")
		return
	}

	h.ok(w, http.StatusCreated, "Staff created successfully", newStaffView(staff))
}

func (h *Handlers) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r, "Invalid staff id")
	if !ok {
		return
	}

	withAvailability := r.URL.Query().Get("include") == "availability"
	staff, err := h.staff.GetStaff(r.Context(), id, withAvailability)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch staff")
		return
	}

	h.ok(w, http.StatusOK, "Staff fetched successfully", newStaffView(staff))
}

func (h *Handlers) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r, "Invalid staff id")
	if !ok {
		return
	}

	var req updateStaffRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err, "Failed to update staff")
		return
	}

	staff, err := h.staff.UpdateStaff(r.Context(), id, service.UpdateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.fail(w, r, err, "Failed to update staff")
		return
	}

	h.ok(w, http.StatusOK, "Staff updated successfully", newStaffView(staff))
}

func (h *Handlers) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r, "Invalid staff id")
	if !ok {
		return
	}

	var req replaceAvailabilityRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err, "Failed to update availability")
		return
	}

	set, err := h.staff.ReplaceAvailability(r.Context(), id, availabilityInput(req.Availability))
	if err != nil {
		h.fail(w, r, err, "Failed to update availability")
		return
	}

	h.ok(w, http.StatusOK, "Availability updated successfully", newAvailabilityViews(set))
}

func (h *Handlers) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r, "Invalid staff id")
	if !ok {
		return
	}

	if err := h.staff.DeleteStaff(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete staff")
		return
	}

	h.ok(w, http.StatusOK, "Staff deleted successfully", nil)
}
