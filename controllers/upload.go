package controllers

import (
	"errors"
	"net/http"
	"strings"

	"mediroom/sources/storage"
)

const maxUploadBytes = 10 << 20

type UploadController struct {
	store *storage.ObjectStore
}

func NewUploadController(store *storage.ObjectStore) *UploadController {
	return &UploadController{store: store}
}

// Upload stores one image attachment and returns its object key.
func (c *UploadController) Upload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", err
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", errors.New("only image uploads are accepted")
	}
	return c.store.UploadAttachment(r.Context(), header.Filename, contentType, file, header.Size)
}
