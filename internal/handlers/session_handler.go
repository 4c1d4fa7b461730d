package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cryptoupi/internal/humancheck"
	"cryptoupi/internal/models"
	"cryptoupi/internal/rate"
	"cryptoupi/internal/services"
	"cryptoupi/internal/verification"
)

type SessionHandler struct {
	Registry *verification.Registry
	Widget   *humancheck.Widget
	logger   *zap.Logger
}

func NewSessionHandler(registry *verification.Registry, widget *humancheck.Widget, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{Registry: registry, Widget: widget, logger: logger}
}

type profileRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
}

func (p *profileRequest) toProfile() verification.Profile {
	return verification.Profile{
		DisplayName: p.DisplayName,
		Email:       p.Email,
	}
}

type requestCodeRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	// widget response from the login page; ignored by dry-run widgets
	CaptchaToken string `json:"captcha_token"`
}

type submitCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type sessionResponse struct {
	Session verification.Snapshot `json:"session"`
	SiteKey string                `json:"site_key,omitempty"`
}

type verifiedResponse struct {
	Session verification.Snapshot `json:"session"`
	Account *models.UserRecord    `json:"account"`
}

type errorResponse struct {
	Error   string                 `json:"error"`
	Kind    string                 `json:"kind,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Session *verification.Snapshot `json:"session,omitempty"`
}

func (h *SessionHandler) session(c *gin.Context) (*verification.Session, bool) {
	s, ok := h.Registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
		return nil, false
	}
	return s, true
}

// @Summary      Start a login attempt
// @Description  Creates a phone verification session. Profile fields are optional and used when the account is provisioned.
// @Tags         Phone login
// @Accept       json
// @Produce      json
// @Param        profile  body      profileRequest  false  "Optional profile"
// @Success      201      {object}  sessionResponse
// @Failure      400      {object}  errorResponse
// @Router       /auth/phone/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req profileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
			return
		}
	}

	s := h.Registry.Create()
	s.SetProfile(req.toProfile())
	h.logger.Debug("session created", zap.String("session_id", s.ID()))

	resp := sessionResponse{Session: s.Snapshot()}
	if h.Widget != nil {
		resp.SiteKey = h.Widget.SiteKey()
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary      Session state
// @Tags         Phone login
// @Produce      json
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  sessionResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/phone/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: s.Snapshot()})
}

// @Summary      Send a code
// @Description  Verifies the human check and sends a one-time code to the phone number.
// @Tags         Phone login
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Session id"
// @Param        request  body      requestCodeRequest  true  "Phone number and widget response"
// @Success      200      {object}  sessionResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Failure      429      {object}  errorResponse
// @Failure      503      {object}  errorResponse
// @Router       /auth/phone/sessions/{id}/code [post]
func (h *SessionHandler) RequestCode(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req requestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	if err := s.RequestCode(c.Request.Context(), req.PhoneNumber, req.CaptchaToken); err != nil {
		h.writeError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: s.Snapshot()})
}

// @Summary      Submit the code
// @Description  Checks the code and provisions the account. A rejected code ends the attempt; request a new code to retry.
// @Tags         Phone login
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Session id"
// @Param        request  body      submitCodeRequest  true  "Six digit code"
// @Success      200      {object}  verifiedResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /auth/phone/sessions/{id}/verify [post]
func (h *SessionHandler) SubmitCode(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req submitCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	account, err := s.SubmitCode(c.Request.Context(), req.Code)
	if err != nil {
		h.writeError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, verifiedResponse{Session: s.Snapshot(), Account: account})
}

// @Summary      Retry provisioning
// @Description  Re-runs account provisioning for a verified session whose first attempt failed.
// @Tags         Phone login
// @Produce      json
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  verifiedResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /auth/phone/sessions/{id}/provision [post]
func (h *SessionHandler) RetryProvisioning(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	account, err := s.RetryProvisioning(c.Request.Context())
	if err != nil {
		h.writeError(c, s, err)
		return
	}
	c.JSON(http.StatusOK, verifiedResponse{Session: s.Snapshot(), Account: account})
}

// @Summary      Start over
// @Tags         Phone login
// @Produce      json
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  sessionResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/phone/sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Reset()
	c.JSON(http.StatusOK, sessionResponse{Session: s.Snapshot()})
}

// @Summary      Abandon a login attempt
// @Tags         Phone login
// @Param        id   path  string  true  "Session id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /auth/phone/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if !h.Registry.Discard(c.Param("id")) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) writeError(c *gin.Context, s *verification.Session, err error) {
	snap := s.Snapshot()
	resp := errorResponse{Error: err.Error(), Session: &snap}

	var (
		validation   *verification.ValidationError
		provider     *verification.ProviderError
		provisioning *verification.ProvisioningError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		resp.Kind = "validation"
		status = http.StatusBadRequest
	case errors.As(err, &provider):
		resp.Kind = "provider"
		status = providerStatus(err)
	case errors.As(err, &provisioning):
		resp.Kind = "provisioning"
		resp.Code = "provisioning_failed"
		// the directory error stays in the logs
		resp.Error = "phone verified but the account could not be saved, retry provisioning"
	case errors.Is(err, verification.ErrSessionReset):
		resp.Kind = "reset"
		status = http.StatusConflict
	default:
		h.logger.Error("session call failed", zap.String("session_id", s.ID()), zap.Error(err))
		resp.Error = "internal error"
	}
	c.JSON(status, resp)
}

func providerStatus(err error) int {
	switch {
	case errors.Is(err, rate.ErrTooSoon), errors.Is(err, rate.ErrBlocked), errors.Is(err, services.ErrDailyLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, humancheck.ErrWidgetClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}
