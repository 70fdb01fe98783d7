package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studiobook/studio-booking/internal/booking"
	redisclient "github.com/studiobook/studio-booking/internal/redis"
)

func availabilityHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var day *time.Time
		if raw := r.URL.Query().Get("day"); raw != "" {
			parsed, err := time.Parse(dateLayout, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_day", "day must be YYYY-MM-DD")
				return
			}
			day = &parsed
		}

		slots, err := svc.Availability(r.Context(), day)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, slotResponses(slots))
	}
}

func bulkSlotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkSlotsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		res, err := svc.GenerateSlots(r.Context(), CurrentUser(r.Context()), date, req.Start, req.End, req.StepMinutes)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BulkSlotsResponse{Created: res.Created, Skipped: res.Skipped})
	}
}

func managerSlotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots, err := svc.ManagerSlots(r.Context(), CurrentUser(r.Context()))
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, slotResponses(slots))
	}
}

func deleteSlotHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteSlot(r.Context(), CurrentUser(r.Context()), id); err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "slot deleted"})
	}
}

func createBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		slotID, err := uuid.Parse(req.SlotID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slot_id must be a valid UUID")
			return
		}
		producerID, err := uuid.Parse(req.ProducerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_producer_id", "producer_id must be a valid UUID")
			return
		}

		b, err := svc.Request(r.Context(), CurrentUser(r.Context()), producerID, slotID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(b))
	}
}

func transitionHandler(run func(r *http.Request, bookingID uuid.UUID) (*booking.Booking, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		b, err := run(r, id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func producerIncomingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.ProducerIncoming(r.Context(), CurrentUser(r.Context()))
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingViewResponses(views))
	}
}

func managerPendingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.ManagerPending(r.Context(), CurrentUser(r.Context()))
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingViewResponses(views))
	}
}

func agendaConfirmedHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.AgendaConfirmed(r.Context())
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingViewResponses(views))
	}
}

func slotResponses(slots []booking.Slot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i := range slots {
		out[i] = toSlotResponse(&slots[i])
	}
	return out
}

func handleBookingError(w http.ResponseWriter, err error) {
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "validation_error", vErr.Msg)
	case errors.Is(err, booking.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "not_allowed", err.Error())
	case errors.Is(err, booking.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, booking.ErrProducerNotFound):
		writeError(w, http.StatusNotFound, "producer_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotNotFree):
		writeError(w, http.StatusConflict, "slot_not_free", err.Error())
	case errors.Is(err, booking.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, booking.ErrSlotBeingBooked), errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, booking.ErrInvalidTransition):
		// Wrong-status transitions are bad state, not contention.
		writeError(w, http.StatusBadRequest, "invalid_status_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
