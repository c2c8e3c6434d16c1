package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/report"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// Ping/Pong settings
const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// SessionRequest is the full widget state the dashboard sends after each change
type SessionRequest struct {
	Seq         int                       `json:"seq"`
	Profile     string                    `json:"profile"`
	Amount      float64                   `json:"amount"`
	ProductType string                    `json:"product_type"`
	Criteria    *CriteriaPatch            `json:"criteria,omitempty"`
	Years       *int                      `json:"years,omitempty"`
	Picks       []advisor.Pick            `json:"picks,omitempty"`
}

// CriteriaPatch carries only the filter widgets the client changed.
// Absent fields keep the default criteria.
type CriteriaPatch struct {
	Category  *string  `json:"category,omitempty"`
	MinCAGR   *float64 `json:"min_cagr,omitempty"`
	MaxCAGR   *float64 `json:"max_cagr,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
}

// Apply overlays the set fields on base
func (p *CriteriaPatch) Apply(base contracts.FilterCriteria) contracts.FilterCriteria {
	if p == nil {
		return base
	}
	if p.Category != nil {
		base.Category = *p.Category
	}
	if p.MinCAGR != nil {
		base.MinCAGR = *p.MinCAGR
	}
	if p.MaxCAGR != nil {
		base.MaxCAGR = *p.MaxCAGR
	}
	if p.MinRating != nil {
		base.MinRating = *p.MinRating
	}
	return base
}

// SessionView is the recomputed dashboard state.
// Error is set instead of closing the socket when a request is invalid.
type SessionView struct {
	Seq             int                         `json:"seq"`
	Allocation      *contracts.AllocationResult `json:"allocation,omitempty"`
	AllocationChart *report.PieChart            `json:"allocation_chart,omitempty"`
	Products        *contracts.FilterOutcome    `json:"products,omitempty"`
	Recommendation  *RecommendationView         `json:"recommendation,omitempty"`
	Error           string                      `json:"error,omitempty"`
	Status          int                         `json:"status,omitempty"`
}

// SessionHandler recomputes the dashboard over a websocket
type SessionHandler struct {
	advisor  *advisor.Service
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewSessionHandler creates a new session handler.
// allowedOrigins empty accepts any origin.
func NewSessionHandler(svc *advisor.Service, allowedOrigins []string, log *logger.Logger) *SessionHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &SessionHandler{
		advisor: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16384,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		logger: log.WithComponent("session"),
	}
}

// Serve upgrades the connection and answers every SessionRequest
// GET /ws/session
func (h *SessionHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(ctx, conn)

	h.logger.WithField("remote", r.RemoteAddr).Debug("session opened")

	for {
		var req SessionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).Warn("session read failed")
			}
			return
		}

		view := h.Compute(ctx, req)

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(view); err != nil {
			h.logger.WithError(err).Warn("session write failed")
			return
		}
	}
}

// Compute recomputes the dashboard for one widget state.
// Nothing is persisted.
func (h *SessionHandler) Compute(ctx context.Context, req SessionRequest) SessionView {
	view := SessionView{Seq: req.Seq}

	allocation, err := h.advisor.Allocate(ctx, req.Profile, req.Amount)
	if err != nil {
		return withError(view, err)
	}
	pie := report.AllocationPie(allocation)
	view.Allocation = allocation
	view.AllocationChart = &pie

	productType := req.ProductType
	if productType == "" {
		productType = string(contracts.ProductMutualFunds)
	}
	criteria := req.Criteria.Apply(contracts.DefaultFilterCriteria())

	outcome, err := h.advisor.Products(ctx, productType, criteria)
	if err != nil {
		return withError(view, err)
	}
	view.Products = &outcome

	if len(req.Picks) == 0 {
		return view
	}

	rec, err := h.advisor.Preview(ctx, advisor.RecommendRequest{
		Profile:     req.Profile,
		Amount:      req.Amount,
		ProductType: productType,
		Years:       req.Years,
		Picks:       req.Picks,
	})
	if err != nil {
		return withError(view, err)
	}
	rv := NewRecommendationView(rec)
	view.Recommendation = &rv

	return view
}

func (h *SessionHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					h.logger.WithError(err).Debug("ping failed")
				}
				return
			}
		}
	}
}

func withError(view SessionView, err error) SessionView {
	view.Status = StatusFor(err)
	if view.Status >= http.StatusInternalServerError {
		view.Error = http.StatusText(view.Status)
		return view
	}
	view.Error = err.Error()
	return view
}
