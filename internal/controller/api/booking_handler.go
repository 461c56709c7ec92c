package api

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
)

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	var staffID int64
	if raw := r.URL.Query().Get("staffId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.fail(w, r, apperr.Validation("staffId", "Invalid staffId"), "Invalid staffId")
			return
		}
		staffID = id
	}

	bookings, err := h.bookings.ListBookings(r.Context(), staffID)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch bookings")
		return
	}

	h.ok(w, http.StatusOK, "Bookings fetched successfully", bookings)
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	req := newBookingRequest()
	if err := decode(r, req); err != nil {
		h.fail(w, r, err, "Failed to create booking")
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), req.createInput())
	if err != nil {
		h.fail(w, r, err, "Failed to create booking")
		return
	}

	h.ok(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r, "Invalid booking id")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch booking")
		return
	}

	h.ok(w, http.StatusOK, "Booking fetched successfully", booking)
}

func (h *Handlers) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r, "Invalid booking id")
	if !ok {
		return
	}

	req := newBookingRequest()
	if err := decode(r, req); err != nil {
		h.fail(w, r, err, "Failed to update booking")
		return
	}

	booking, err := h.bookings.UpdateBooking(r.Context(), id, req.updateInput())
	if err != nil {
		h.fail(w, r, err, "Failed to update booking")
		return
	}

	h.ok(w, http.StatusOK, "Booking updated successfully", booking)
}

func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireID(w, r, "Invalid booking id")
	if !ok {
		return
	}

	if err := h.bookings.DeleteBooking(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete booking")
		return
	}

	h.ok(w, http.StatusOK, "Booking deleted successfully", nil)
}
