package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"boutique/internal/apierror"
	"boutique/internal/dto"
	"boutique/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadFiles = 10
	maxUploadBytes = 32 << 20
)

// FileSaver is satisfied by *infra.LocalStorage.
type FileSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

type UploadHandler struct{ store FileSaver }

func NewUploadHandler(store FileSaver) *UploadHandler { return &UploadHandler{store: store} }

// Upload godoc
// @Summary      Téléverse des images
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        files formData file true "Images (champ répétable)"
// @Success      201 {object} dto.UploadResponse
// @Failure      400 {object} apierror.APIError
// @Router       /admin/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulaire multipart invalide"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Aucun fichier reçu"))
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, apierror.New("Trop de fichiers"))
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.store.Save(fh)
		if errors.Is(err, infra.ErrUnsupportedFile) {
			c.JSON(http.StatusBadRequest, apierror.New("Format d'image non supporté: "+fh.Filename))
			return
		}
		if err != nil {
			log.Error().Err(err).Str("file", fh.Filename).Msg("upload: save failed")
			c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de l'enregistrement du fichier"))
			return
		}
		urls = append(urls, url)
	}
	c.JSON(http.StatusCreated, dto.UploadResponse{URLs: urls})
}
