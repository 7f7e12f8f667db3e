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
)

func SessionRoutes(ctrl *controllers.SessionController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		var req types.SessionChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		userID := r.Context().Value(middlewares.UserIDKey).(int)
		resp, err := ctrl.Chat(r.Context(), userID, req)
		if err != nil {
			switch {
			case errors.Is(err, controllers.ErrSessionNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, rooms.ErrEmptyContent):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusBadGateway)
			}
			return
		}
		json.NewEncoder(w).Encode(resp)
	})

	return r
}
