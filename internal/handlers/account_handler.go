package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cryptoupi/internal/models"
	"cryptoupi/internal/services"
)

type AccountHandler struct {
	Service *services.ProvisioningService
	logger  *zap.Logger
}

func NewAccountHandler(service *services.ProvisioningService, logger *zap.Logger) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{Service: service, logger: logger}
}

// @Summary      Read an account
// @Tags         Admin accounts
// @Produce      json
// @Security     BearerAuth
// @Param        wallet  path      string  true  "Wallet address"
// @Success      200     {object}  models.UserRecord
// @Failure      404     {object}  map[string]string
// @Router       /admin/accounts/{wallet} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	rec, err := h.Service.GetAccount(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Edit an account
// @Description  Updates the mutable fields (KYC status, 2FA flag, profile). Identity fields cannot be changed.
// @Tags         Admin accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        wallet  path      string            true  "Wallet address"
// @Param        patch   body      models.UserPatch  true  "Fields to change"
// @Success      200     {object}  models.UserRecord
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/accounts/{wallet} [patch]
func (h *AccountHandler) Patch(c *gin.Context) {
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.Service.PatchAccount(c.Request.Context(), c.Param("wallet"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	subject, _ := getSubjectAndRole(c)
	h.logger.Info("account edited", zap.String("wallet", rec.WalletAddress), zap.String("by", subject))
	c.JSON(http.StatusOK, rec)
}

func (h *AccountHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidKYCStatus), errors.Is(err, services.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("account operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
