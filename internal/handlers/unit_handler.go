package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	apDomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var errUnitInUse = httperr.Conflict("unit_in_use", "A unidade possui agendamentos e não pode ser removida.")

type UnitHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUnitHandler(db *gorm.DB, audit *audit.Dispatcher) *UnitHandler {
	return &UnitHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateUnitRequest struct {
	Name    string          `json:"name" binding:"required,max=100"`
	Phone   string          `json:"phone" binding:"max=20"`
	Address *AddressRequest `json:"address"`
}

type UpdateUnitRequest struct {
	Name    *string         `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Phone   *string         `json:"phone,omitempty" binding:"omitempty,max=20"`
	Address *AddressRequest `json:"address,omitempty"`
}

func applyAddress(dst *models.Address, src *AddressRequest) *models.Address {
	if dst == nil {
		dst = &models.Address{}
	}
	dst.ZipCode = src.ZipCode
	dst.State = strings.ToUpper(src.State)
	dst.City = src.City
	dst.District = src.District
	dst.Street = src.Street
	dst.Number = src.Number
	return dst
}

// --------- Handlers ---------

func (h *UnitHandler) List(c *gin.Context) {
	units := []models.Unit{}
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Address").
		Order("name ASC, id ASC").
		Find(&units).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, units)
}

func (h *UnitHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	unit, err := h.find(c, h.db, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, unit)
}

func (h *UnitHandler) Create(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	unit := models.Unit{
		Name:  strings.TrimSpace(req.Name),
		Phone: req.Phone,
	}
	if req.Address != nil {
		unit.Address = applyAddress(nil, req.Address)
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&unit).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   actorID(c),
		Action:   "unit_created",
		Entity:   "unit",
		EntityID: &unit.ID,
	})

	c.JSON(http.StatusCreated, unit)
}

func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	var unit *models.Unit
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		if unit, err = h.find(c, tx, id); err != nil {
			return err
		}

		if req.Name != nil {
			unit.Name = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			unit.Phone = *req.Phone
		}
		if req.Address != nil {
			unit.Address = applyAddress(unit.Address, req.Address)
			if err := tx.Save(unit.Address).Error; err != nil {
				return err
			}
			unit.AddressID = &unit.Address.ID
		}

		return tx.Omit(clause.Associations).Save(unit).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   actorID(c),
		Action:   "unit_updated",
		Entity:   "unit",
		EntityID: &unit.ID,
	})

	httpresp.OK(c, unit)
}

func (h *UnitHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.Appointment{}).
			Where("unit_id = ?", id).
			Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return errUnitInUse
		}

		res := tx.Delete(&models.Unit{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apDomain.ErrUnitNotFound
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   actorID(c),
		Action:   "unit_deleted",
		Entity:   "unit",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

func (h *UnitHandler) find(c *gin.Context, db *gorm.DB, id uint) (*models.Unit, error) {
	var unit models.Unit
	err := db.WithContext(c.Request.Context()).
		Preload("Address").
		First(&unit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apDomain.ErrUnitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func actorID(c *gin.Context) *uint {
	id := middleware.UserID(c)
	if id == 0 {
		return nil
	}
	return &id
}
