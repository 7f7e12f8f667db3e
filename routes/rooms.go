package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediroom/config"
	"mediroom/controllers"
	"mediroom/middlewares"
	"mediroom/rooms"
	"mediroom/types"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func RoomRoutes(ctrl *controllers.RoomController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		userID := r.Context().Value(middlewares.UserIDKey).(int)
		resp, err := ctrl.Create(r.Context(), userID, req)
		if err != nil {
			http.Error(w, err.Error(), statusForRoomError(err))
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	})

	r.Post("/join", func(w http.ResponseWriter, r *http.Request) {
		var req types.JoinRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		room, err := ctrl.JoinByCode(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), statusForRoomError(err))
			return
		}
		json.NewEncoder(w).Encode(room)
	})

	r.Post("/{room_id}/end", func(w http.ResponseWriter, r *http.Request) {
		roomID, err := uuid.Parse(chi.URLParam(r, "room_id"))
		if err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		userID := r.Context().Value(middlewares.UserIDKey).(int)
		if err := ctrl.End(r.Context(), roomID, userID); err != nil {
			http.Error(w, err.Error(), statusForRoomError(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/{room_id}/messages", func(w http.ResponseWriter, r *http.Request) {
		roomID, err := uuid.Parse(chi.URLParam(r, "room_id"))
		if err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		msgs, err := ctrl.Messages(r.Context(), roomID)
		if err != nil {
			http.Error(w, err.Error(), statusForRoomError(err))
			return
		}
		json.NewEncoder(w).Encode(msgs)
	})

	return r
}

func statusForRoomError(err error) int {
	switch {
	case errors.Is(err, rooms.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rooms.ErrAlreadyEnded), errors.Is(err, rooms.ErrFull):
		return http.StatusConflict
	case errors.Is(err, rooms.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, rooms.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, rooms.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
