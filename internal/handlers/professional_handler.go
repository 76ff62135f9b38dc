package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apDomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/media"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/storage"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

const maxAvatarBytes = 5 << 20

type ProfessionalHandler struct {
	users  userdomain.Repository
	recent *ucAppointment.ListRecentPatients

	// storage is nil when no bucket is configured.
	storage storage.Uploader
}

func NewProfessionalHandler(
	users userdomain.Repository,
	recent *ucAppointment.ListRecentPatients,
	uploader storage.Uploader,
) *ProfessionalHandler {
	return &ProfessionalHandler{
		users:   users,
		recent:  recent,
		storage: uploader,
	}
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	list, err := h.users.ListByRole(c.Request.Context(), models.RoleProfessional, userdomain.ListFilter{
		Specialty: c.Query("specialty"),
		Query:     c.Query("query"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, list)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	pro, err := h.professional(c, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, pro)
}

func (h *ProfessionalHandler) RecentPatients(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	list, err := h.recent.Execute(c.Request.Context(), id, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, list)
}

func (h *ProfessionalHandler) Specialties(c *gin.Context) {
	list, err := h.users.Specialties(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, list)
}

// UploadAvatar stores the multipart "file" as a WebP avatar. Administrators
// may change any professional, a professional only their own.
func (h *ProfessionalHandler) UploadAvatar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if middleware.Role(c) != models.RoleAdministrator && middleware.UserID(c) != id {
		httperr.Forbidden(c, "forbidden", "Você não tem permissão para esta ação.")
		return
	}

	if h.storage == nil {
		httperr.Respond(c, httperr.Unavailable("storage_unavailable", "Armazenamento de arquivos indisponível."))
		return
	}

	if _, err := h.professional(c, id); err != nil {
		httperr.Respond(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo de imagem obrigatório.")
		return
	}
	if fh.Size > maxAvatarBytes {
		httperr.BadRequest(c, "file_too_large", "A imagem deve ter no máximo 5 MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, httperr.Wrap("avatar_read_failed", err))
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes))
	if err != nil {
		httperr.Respond(c, httperr.Wrap("avatar_read_failed", err))
		return
	}

	img, err := media.ToWebP(raw, media.MaxAvatarSide)
	if errors.Is(err, media.ErrUnsupportedImage) {
		httperr.BadRequest(c, "unsupported_image", "Formato de imagem não suportado.")
		return
	}
	if err != nil {
		httperr.Respond(c, httperr.Wrap("avatar_encode_failed", err))
		return
	}

	key := fmt.Sprintf("avatars/%d/%s.webp", id, uuid.NewString())
	url, err := h.storage.Upload(c.Request.Context(), key, media.ContentType, img)
	if err != nil {
		httperr.Respond(c, httperr.Failure("avatar_upload_failed", "Não foi possível salvar a imagem.", err))
		return
	}

	if err := h.users.SetAvatar(c.Request.Context(), id, url); err != nil {
		httperr.Respond(c, err)
		return
	}

	pro, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, pro)
}

func (h *ProfessionalHandler) professional(c *gin.Context, id uint) (*models.User, error) {
	u, err := h.users.Get(c.Request.Context(), id)
	if errors.Is(err, userdomain.ErrNotFound) || (err == nil && u.Role != models.RoleProfessional) {
		return nil, apDomain.ErrProfessionalNotFound
	}
	return u, err
}
