package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "sort"
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/access"
    "github.com/davrbek/restaurant-reservation/internal/availability"
    "github.com/davrbek/restaurant-reservation/internal/config"
    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/queue"
    "github.com/davrbek/restaurant-reservation/internal/repository"
)

// BookingHandler serves reservation creation and the guest-facing
// read/cancel endpoints.  The booking endpoint accepts both signed-in
// clients and anonymous guests: a bearer token is optional, and both
// identities are normalized into one request value before the
// transactional section so a single code path claims slots, debits the
// ledger and writes the rows.
type BookingHandler struct {
    Cfg            config.Config
    Users          *repository.UserRepo
    Establishments *repository.EstablishmentRepo
    Slots          *repository.SlotRepo
    Availability   *repository.AvailabilityRepo
    Reservations   *repository.ReservationRepo
    History        *repository.HistoryRepo
    Confirmations  *repository.ConfirmationRepo
}

func NewBookingHandler(cfg config.Config, users *repository.UserRepo, ests *repository.EstablishmentRepo,
    slots *repository.SlotRepo, avail *repository.AvailabilityRepo, res *repository.ReservationRepo,
    hist *repository.HistoryRepo, conf *repository.ConfirmationRepo) *BookingHandler {
    if users == nil || ests == nil || slots == nil || avail == nil || res == nil || hist == nil || conf == nil {
        panic("nil repository passed to NewBookingHandler")
    }
    return &BookingHandler{
        Cfg: cfg, Users: users, Establishments: ests,
        Slots: slots, Availability: avail, Reservations: res,
        History: hist, Confirmations: conf,
    }
}

type createReservationReq struct {
    SlotIDs   []uint64 `json:"slot_ids"`
    Guests    uint32   `json:"guests"`
    Comment   string   `json:"comment"`
    FirstName string   `json:"first_name"`
    LastName  string   `json:"last_name"`
    Phone     string   `json:"phone"`
    Email     string   `json:"email"`
}

// bookingRequest is the normalized form both identities reduce to
// before anything is written.
type bookingRequest struct {
    establishmentID uint64
    slotIDs         []uint64
    guests          uint32
    comment         *string
    userID          *uint64
    firstName       string
    lastName        string
    phone           string
    email           string
    needsCode       bool // anonymous bookings must consume a verified code
}

// optionalUserID parses a bearer token when present, without requiring
// one.  An invalid token is treated the same as no token: the request
// proceeds anonymously and must satisfy the guest contact rules.
func (h *BookingHandler) optionalUserID(c echo.Context) *uint64 {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return nil
    }
    tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(h.Cfg.JWTSecret), nil
    })
    if err != nil || !tok.Valid {
        return nil
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return nil
    }
    sub, ok := claims["sub"].(float64)
    if !ok {
        return nil
    }
    uid := uint64(sub)
    return &uid
}

// CreateReservation handles POST /v1/establishments/:id/reservations.
func (h *BookingHandler) CreateReservation(c echo.Context) error {
    estID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid establishment id"})
    }
    var body createReservationReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Guests == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be at least 1"})
    }
    slotIDs := dedupeIDs(body.SlotIDs)
    if len(slotIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_ids is required"})
    }

    ctx := c.Request().Context()
    est, err := h.Establishments.GetByID(ctx, estID)
    if err != nil {
        if err == repository.ErrEstablishmentNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    req := bookingRequest{
        establishmentID: estID,
        slotIDs:         slotIDs,
        guests:          body.Guests,
    }
    if cm := strings.TrimSpace(body.Comment); cm != "" {
        req.comment = &cm
    }

    if uid := h.optionalUserID(c); uid != nil {
        u, err := h.Users.GetByID(ctx, *uid)
        if err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        }
        req.userID = uid
        req.firstName = u.FirstName
        req.lastName = u.LastName
        req.phone = u.Phone
        req.email = u.Email
    } else {
        req.firstName = strings.TrimSpace(body.FirstName)
        req.lastName = strings.TrimSpace(body.LastName)
        req.phone = strings.TrimSpace(body.Phone)
        req.email = strings.ToLower(strings.TrimSpace(body.Email))
        req.needsCode = true
        if req.firstName == "" || req.lastName == "" || req.phone == "" || req.email == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": model.ErrContactRequired.Error()})
        }
    }

    res, err := h.book(ctx, &req)
    if err != nil {
        switch {
        case errors.Is(err, model.ErrCodeNotVerified):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact not verified"})
        case errors.Is(err, model.ErrMixedSlots):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "slots must share one zone and one date"})
        case errors.Is(err, model.ErrSlotsNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "slots not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "slots no longer available"})
        case errors.Is(err, model.ErrNotEnoughSeats):
            return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats remaining"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
    }

    // Owner notification goes out after commit; a broker outage cannot
    // undo the booking.
    publishReservationEvent(ctx, queue.EventCreated, res, &est)

    resp := echo.Map{
        "reservation_id": res.ID,
        "status":         "PENDING",
        "stay_at":        res.StayAt.UTC().Format(time.RFC3339),
        "guests":         res.Guests,
    }
    if req.userID == nil {
        resp["manage_token"] = res.ManageToken
    }
    return c.JSON(http.StatusCreated, resp)
}

// book runs the transactional section of a normalized booking request.
func (h *BookingHandler) book(ctx context.Context, req *bookingRequest) (*model.Reservation, error) {
    tx, err := h.Establishments.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    slots, err := h.Slots.GetManyTx(ctx, tx, req.establishmentID, req.slotIDs)
    if err != nil {
        return nil, err
    }
    // A shortfall here means ids that never existed for this venue, not a
    // race: the claim below is what detects concurrent consumption.
    if len(slots) != len(req.slotIDs) {
        return nil, model.ErrSlotsNotFound
    }
    zoneID := slots[0].ZoneID
    date := slots[0].Date
    for _, s := range slots[1:] {
        if s.ZoneID != zoneID || !s.Date.Equal(date) {
            return nil, model.ErrMixedSlots
        }
    }

    // The conditional claim is the linearization point: losing a race
    // for any slot rolls the whole booking back.
    if err := h.Slots.ClaimTx(ctx, tx, req.establishmentID, req.slotIDs); err != nil {
        return nil, err
    }
    dateStr := date.Format("2006-01-02")
    if err := h.Availability.ReserveTx(ctx, tx, zoneID, dateStr, req.guests); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return nil, model.ErrNotEnoughSeats
        }
        return nil, err
    }
    if req.needsCode {
        ok, err := h.Confirmations.ConsumeVerifiedTx(ctx, tx, req.email)
        if err != nil {
            return nil, err
        }
        if !ok {
            return nil, model.ErrCodeNotVerified
        }
    }

    times := make([]string, 0, len(slots))
    for _, s := range slots {
        times = append(times, s.TimeOfDay)
    }
    sort.Strings(times)
    stayAt, err := availability.CombineDateTime(date, times[0])
    if err != nil {
        return nil, err
    }

    res := &model.Reservation{
        EstablishmentID: req.establishmentID,
        ZoneID:          zoneID,
        UserID:          req.userID,
        FirstName:       req.firstName,
        LastName:        req.lastName,
        Phone:           req.phone,
        Email:           req.email,
        Guests:          req.guests,
        Comment:         req.comment,
        StayAt:          stayAt,
        ManageToken:     uuid.NewString(),
    }
    if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
        return nil, err
    }
    if err := h.Reservations.AttachSlotsTx(ctx, tx, res.ID, req.slotIDs); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return res, nil
}

// ListMine handles GET /v1/my-reservations for signed-in clients.
func (h *BookingHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetReservation handles GET /v1/reservations/:id.  Only the booking
// client (or an admin) may read it; venue owners use the owner routes.
func (h *BookingHandler) GetReservation(c echo.Context) error {
    actor, err := actorFrom(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByID(ctx, resID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ownerID, err := h.Establishments.OwnerOf(ctx, res.EstablishmentID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !access.CanViewReservation(actor, &res, ownerID) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    detail, err := h.Reservations.GetDetail(ctx, resID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// CancelReservation handles DELETE /v1/reservations/:id for the booking
// client.  Confirmed future stays are protected; everything else is
// archived as CANCELLED with the slots and ledger seats handed back.
func (h *BookingHandler) CancelReservation(c echo.Context) error {
    actor, err := actorFrom(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByID(ctx, resID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !access.CanCancelOwn(actor, &res) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return h.finishCancel(c, &res)
}

// GetGuestReservation handles GET /v1/guest/reservations/:token.  The
// manage token is the whole credential; no session is involved.
func (h *BookingHandler) GetGuestReservation(c echo.Context) error {
    token := strings.TrimSpace(c.Param("token"))
    if token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token"})
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByManageToken(ctx, token)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    detail, err := h.Reservations.GetDetail(ctx, res.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// CancelGuestReservation handles DELETE /v1/guest/reservations/:token.
func (h *BookingHandler) CancelGuestReservation(c echo.Context) error {
    token := strings.TrimSpace(c.Param("token"))
    if token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token"})
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByManageToken(ctx, token)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return h.finishCancel(c, &res)
}

// finishCancel runs the shared guard + transaction for guest-initiated
// cancellations and writes the HTTP response.
func (h *BookingHandler) finishCancel(c echo.Context, res *model.Reservation) error {
    if err := res.CanCancel(time.Now().UTC()); err != nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    if err := CancelReservationTx(ctx, h.Establishments.DB(), h.Reservations, h.Slots, h.Availability, h.History, res); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }
    if est, err := h.Establishments.GetByID(ctx, res.EstablishmentID); err == nil {
        publishReservationEvent(ctx, queue.EventCancelled, res, &est)
    }
    return c.NoContent(http.StatusNoContent)
}

// CancelReservationTx tears a reservation down atomically: slots return
// to the pool, ledger seats are restored capped at zone capacity, the
// terminal state is archived as CANCELLED and the row is deleted.  Both
// the guest and the owner cancellation endpoints funnel through here.
func CancelReservationTx(ctx context.Context, db *sql.DB, reservations *repository.ReservationRepo,
    slots *repository.SlotRepo, avail *repository.AvailabilityRepo, history *repository.HistoryRepo,
    res *model.Reservation) error {
    tx, err := db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    slotIDs, err := reservations.SlotIDsTx(ctx, tx, res.ID)
    if err != nil {
        return err
    }
    if err := slots.ReactivateTx(ctx, tx, slotIDs); err != nil {
        return err
    }
    dateStr := res.StayAt.UTC().Format("2006-01-02")
    if err := avail.RestoreTx(ctx, tx, res.ZoneID, dateStr, res.Guests); err != nil {
        return err
    }
    if err := history.ArchiveTx(ctx, tx, res, model.OutcomeCancelled); err != nil {
        return err
    }
    if err := reservations.DeleteTx(ctx, tx, res.ID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// dedupeIDs drops zero and repeated IDs while keeping order.
func dedupeIDs(ids []uint64) []uint64 {
    out := make([]uint64, 0, len(ids))
    seen := make(map[uint64]struct{}, len(ids))
    for _, id := range ids {
        if id == 0 {
            continue
        }
        if _, ok := seen[id]; !ok {
            seen[id] = struct{}{}
            out = append(out, id)
        }
    }
    return out
}
