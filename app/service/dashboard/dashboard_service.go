package service

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"school-analytics-dashboard/app/aggregate"
	"school-analytics-dashboard/app/realtime"
	"school-analytics-dashboard/utils"
)

type DashboardService struct {
	agg      *Aggregator
	renderer *Renderer
	registry *realtime.Registry
	locale   aggregate.Locale
	now      func() time.Time
}

func NewDashboardService(agg *Aggregator, renderer *Renderer, registry *realtime.Registry, locale aggregate.Locale) *DashboardService {
	return &DashboardService{agg: agg, renderer: renderer, registry: registry, locale: locale, now: time.Now}
}

// Helper untuk ambil token dari c.Locals("token") (diisi middleware.AuthRequired)
func getToken(c *fiber.Ctx) string {
	if tok, ok := c.Locals("token").(string); ok {
		return tok
	}
	return ""
}

// Identitas dari c.Locals("identity"); hash token kalau middleware tidak mengisinya
func getIdentity(c *fiber.Ctx, token string) string {
	if id, ok := c.Locals("identity").(string); ok && id != "" {
		return id
	}
	return utils.CredentialIdentity(token)
}

// Bahasa dari Accept-Language, kalau kosong pakai default konfigurasi
func (s *DashboardService) localeFor(c *fiber.Ctx) aggregate.Locale {
	if accept := c.Get(fiber.HeaderAcceptLanguage); accept != "" {
		return aggregate.LocaleFor(accept)
	}
	return s.locale
}

// === Endpoint Logic: GET /dashboard ===
// Fetch ulang hanya kalau identitas credential berubah. Gagal fetch tetap 200,
// frontend membaca field loading/error.
func (s *DashboardService) GetDashboard(c *fiber.Ctx) error {
	token := getToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrNoCredential.Error()})
	}

	identity := getIdentity(c, token)
	err := s.agg.Refresh(c.UserContext(), token, identity)
	if errors.Is(err, ErrClosed) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(s.render(c, identity, err))
}

// === Endpoint Logic: POST /dashboard/refresh ===
func (s *DashboardService) RefreshDashboard(c *fiber.Ctx) error {
	token := getToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrNoCredential.Error()})
	}

	identity := getIdentity(c, token)
	err := s.agg.ForceRefresh(c.UserContext(), token, identity)
	view := s.render(c, identity, err)

	switch {
	case err == nil, errors.Is(err, ErrStaleCycle):
		return c.JSON(view)
	case errors.Is(err, ErrClosed):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(view)
	}
}

// render hanya menampilkan snapshot milik identitas pemanggil. Error fetch pemanggil
// sendiri selalu ditampilkan walaupun siklusnya sudah digantikan identitas lain.
func (s *DashboardService) render(c *fiber.Ctx, identity string, fetchErr error) DashboardView {
	st := s.agg.StateFor(identity)
	if fetchErr != nil && !errors.Is(fetchErr, ErrStaleCycle) {
		st.Err = fetchErr
	}
	return s.renderer.Render(st, s.localeFor(c), s.now())
}

// === Endpoint Logic: GET /dashboard/presence ===
func (s *DashboardService) GetPresence(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"online_users": s.agg.OnlineUsers()})
}

// === Endpoint Logic: GET /ops/status ===
func (s *DashboardService) GetStatus(c *fiber.Ctx) error {
	st := s.agg.State()

	resp := fiber.Map{
		"cycle":        st.Cycle,
		"loading":      st.Loading,
		"refreshing":   st.Refreshing,
		"online_users": st.OnlineUsers,
		"subscribed":   s.registry.Types(),
	}
	if !st.LastAttempt.IsZero() {
		resp["last_attempt"] = st.LastAttempt
	}
	if st.Err != nil {
		resp["last_error"] = st.Err.Error()
	}
	if st.Snapshot != nil {
		resp["snapshot_id"] = st.Snapshot.ID
		resp["fetched_at"] = st.Snapshot.FetchedAt
	}
	return c.JSON(resp)
}
