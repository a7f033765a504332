package handler

import (
	"errors"
	"net/http"

	"github.com/B0bbyBrown/ExpendiForge/internal/apierror"
	"github.com/B0bbyBrown/ExpendiForge/internal/dto"
	"github.com/B0bbyBrown/ExpendiForge/internal/middleware"
	"github.com/B0bbyBrown/ExpendiForge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// Create godoc
// @Summary      Upload a purchase
// @Description  Creates a purchase with an optional receipt attachment. The purchase and its audit entry are written atomically.
// @Tags         purchases
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        description        formData string true  "Description"
// @Param        amount             formData string true  "Unit amount, positive"
// @Param        quantity           formData string false "Quantity, positive integer (default 1)"
// @Param        vendor             formData string true  "Vendor name"
// @Param        date_collected     formData string true  "YYYY-MM-DD"
// @Param        purchase_type      formData string false "product | service"
// @Param        category_id        formData string false "Category UUID"
// @Param        notes              formData string false "Free-text notes"
// @Param        paid_on_collection formData string false "Any value = paid"
// @Param        attachment         formData file   false "Receipt (pdf, jpg, jpeg, png)"
// @Success      201  {object} dto.PurchaseResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/purchases [post]
func (h *PurchasesHandler) Create(c *gin.Context) {
	var form dto.CreatePurchaseForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid form: "+err.Error()))
		return
	}

	attachment, err := c.FormFile("attachment")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid attachment: "+err.Error()))
		return
	}

	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		// A token that verified but carries an unusable subject must not
		// reach the store as uuid.Nil.
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalid or expired"))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), userID, form, attachment)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuditTrail godoc
// @Summary      Audit trail for a purchase
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Purchase UUID"
// @Success      200 {array} model.AuditLog
// @Failure      400 {object} apierror.APIError
// @Router       /v1/purchases/{id}/audit [get]
func (h *PurchasesHandler) AuditTrail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	entries, err := h.svc.AuditTrail(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not load audit trail"))
		return
	}
	c.JSON(http.StatusOK, entries)
}
