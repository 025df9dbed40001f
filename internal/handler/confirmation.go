package handler

import (
    "log"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/config"
    "github.com/davrbek/restaurant-reservation/internal/notify"
    "github.com/davrbek/restaurant-reservation/internal/repository"
    "github.com/davrbek/restaurant-reservation/internal/utils"
)

// ConfirmationHandler issues and verifies the short codes that gate
// anonymous booking.  Codes are mailed synchronously: the guest is
// sitting on the booking form waiting for it, so a queue round-trip
// buys nothing here.
type ConfirmationHandler struct {
    Cfg           config.Config
    Confirmations *repository.ConfirmationRepo
    Mailer        *notify.Mailer
}

func NewConfirmationHandler(cfg config.Config, repo *repository.ConfirmationRepo, mailer *notify.Mailer) *ConfirmationHandler {
    if repo == nil {
        panic("nil repository passed to NewConfirmationHandler")
    }
    return &ConfirmationHandler{Cfg: cfg, Confirmations: repo, Mailer: mailer}
}

type issueCodeReq struct {
    Contact string `json:"contact"` // guest email address
}

type verifyCodeReq struct {
    Contact string `json:"contact"`
    Code    string `json:"code"`
}

// Issue handles POST /v1/confirmations.  A fresh 6-digit code replaces
// any previous one for the contact; the response never includes the
// code itself.
func (h *ConfirmationHandler) Issue(c echo.Context) error {
    var req issueCodeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    contact := strings.ToLower(strings.TrimSpace(req.Contact))
    if contact == "" || !strings.Contains(contact, "@") {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact email required"})
    }

    code, err := utils.NumericCode(6)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "code generation failed"})
    }
    ctx := c.Request().Context()
    if err := h.Confirmations.Issue(ctx, contact, code, h.Cfg.CodeTTL); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if h.Mailer != nil {
        if err := h.Mailer.SendConfirmationCode(contact, code, h.Cfg.CodeTTL); err != nil {
            // The row exists either way; the guest can re-request.
            log.Printf("confirmations: mail to %s failed: %v", contact, err)
        }
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "contact":     contact,
        "ttl_seconds": int(h.Cfg.CodeTTL.Seconds()),
    })
}

// Verify handles POST /v1/confirmations/verify.  Wrong, expired and
// missing codes all produce the same 400 so the endpoint cannot be used
// to probe which contacts requested codes.
func (h *ConfirmationHandler) Verify(c echo.Context) error {
    var req verifyCodeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    contact := strings.ToLower(strings.TrimSpace(req.Contact))
    code := strings.TrimSpace(req.Code)
    if contact == "" || code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact and code required"})
    }
    ok, err := h.Confirmations.Verify(c.Request().Context(), contact, code)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired code"})
    }
    return c.JSON(http.StatusOK, echo.Map{"verified": true})
}
