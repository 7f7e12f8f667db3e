package routes

import (
	"encoding/json"
	"net/http"

	"mediroom/config"
	"mediroom/controllers"
	"mediroom/middlewares"

	"github.com/go-chi/chi/v5"
)

func UploadRoutes(ctrl *controllers.UploadController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		key, err := ctrl.Upload(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"key": key})
	})

	return r
}
