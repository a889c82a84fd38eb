package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	models "school-analytics-dashboard/app/models/analytics"
	"school-analytics-dashboard/app/realtime"
	"school-analytics-dashboard/app/repository"
	"school-analytics-dashboard/utils"
)

var (
	ErrClosed       = errors.New("aggregator closed")
	ErrNoCredential = errors.New("missing credential")
	// ErrStaleCycle dikembalikan kalau hasil fetch sudah digantikan siklus yang lebih baru
	ErrStaleCycle = errors.New("fetch cycle superseded")
)

type Options struct {
	ActivityLimit int
	GrowthYears   int
	FetchTimeout  time.Duration
}

// State adalah keadaan dashboard yang siap dirender
type State struct {
	Snapshot    *models.ViewSnapshot
	OnlineUsers int
	Loading     bool
	Refreshing  bool
	Err         error
	LastAttempt time.Time
	Cycle       uint64
}

// Aggregator mengambil lima resource analitik secara paralel dan mempublikasikan satu
// ViewSnapshot per siklus. Jumlah user online diperbarui terpisah lewat Registry.
type Aggregator struct {
	repo     repository.DashboardRepository
	registry *realtime.Registry
	opts     Options
	log      *logrus.Entry
	now      func() time.Time

	snapshot atomic.Pointer[models.ViewSnapshot]
	presence atomic.Int64

	mu          sync.Mutex
	identity    string
	cycle       uint64
	inflight    chan struct{}
	lastErr     error
	lastAttempt time.Time
	closed      bool
}

func NewAggregator(repo repository.DashboardRepository, registry *realtime.Registry, opts Options) *Aggregator {
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = 5
	}
	return &Aggregator{
		repo:     repo,
		registry: registry,
		opts:     opts,
		log:      logrus.WithField("component", "aggregator"),
		now:      time.Now,
	}
}

// Mount mendaftarkan handler jumlah user online. Pasangannya Close.
func (a *Aggregator) Mount() {
	a.registry.Register(realtime.TypeActiveUsersCount, a.onActiveUsers)
}

// Close melepas handler dan membuang hasil fetch yang masih berjalan
func (a *Aggregator) Close() {
	a.registry.Unregister(realtime.TypeActiveUsersCount)

	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

func (a *Aggregator) onActiveUsers(ev realtime.Event) {
	if c, ok := ev.(realtime.ActiveUsersCount); ok {
		a.presence.Store(int64(c.Count))
	}
}

// Refresh menjalankan siklus fetch hanya kalau identitas credential berubah.
// Untuk identitas yang sama, Refresh menunggu siklus yang sedang berjalan lalu mengembalikan hasilnya.
// identity kosong berarti identitas diturunkan dari hash token.
func (a *Aggregator) Refresh(ctx context.Context, token, identity string) error {
	identity = resolveIdentity(token, identity)
	if identity == "" {
		return ErrNoCredential
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.cycle > 0 && identity == a.identity {
		wait := a.inflight
		a.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}

		a.mu.Lock()
		defer a.mu.Unlock()
		return a.lastErr
	}
	a.mu.Unlock()

	return a.ForceRefresh(ctx, token, identity)
}

// ForceRefresh selalu memulai siklus baru (trigger refresh eksplisit)
func (a *Aggregator) ForceRefresh(ctx context.Context, token, identity string) error {
	identity = resolveIdentity(token, identity)
	if identity == "" {
		return ErrNoCredential
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.cycle++
	cycle := a.cycle
	a.identity = identity
	done := make(chan struct{})
	a.inflight = done
	a.mu.Unlock()
	defer close(done)

	log := a.log.WithFields(logrus.Fields{"cycle": cycle, "identity": identity})
	snap, err := a.fetch(ctx, token, identity)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || cycle != a.cycle {
		log.Debug("discarding result of superseded fetch cycle")
		return ErrStaleCycle
	}

	a.lastAttempt = a.now()
	if err != nil {
		// snapshot lama tetap dipakai, tidak ada retry otomatis
		a.lastErr = err
		log.WithError(err).Error("error fetching dashboard data")
		return err
	}

	a.lastErr = nil
	a.snapshot.Store(snap)
	log.WithField("snapshot", snap.ID).Info("dashboard snapshot published")
	return nil
}

func resolveIdentity(token, identity string) string {
	if token == "" {
		return ""
	}
	if identity == "" {
		return utils.CredentialIdentity(token)
	}
	return identity
}

// fetch menjalankan kelima request bersamaan; satu gagal berarti seluruh siklus gagal
func (a *Aggregator) fetch(ctx context.Context, token, identity string) (*models.ViewSnapshot, error) {
	if a.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.FetchTimeout)
		defer cancel()
	}

	var (
		stats      models.DashboardStats
		majors     []models.StudentCountByMajor
		growth     []models.StudentGrowth
		browsers   []models.BrowserUsage
		activities []models.ActivityLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = a.repo.GetDashboardStats(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		majors, err = a.repo.GetStudentCountByMajor(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		growth, err = a.repo.GetStudentGrowth(gctx, token, a.opts.GrowthYears)
		return err
	})
	g.Go(func() error {
		var err error
		browsers, err = a.repo.GetBrowserUsage(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = a.repo.GetActivityLogs(gctx, token, a.opts.ActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if majors == nil {
		majors = []models.StudentCountByMajor{}
	}
	if growth == nil {
		growth = []models.StudentGrowth{}
	}
	if browsers == nil {
		browsers = []models.BrowserUsage{}
	}
	if activities == nil {
		activities = []models.ActivityLog{}
	}
	if len(activities) > a.opts.ActivityLimit {
		activities = activities[:a.opts.ActivityLimit]
	}

	return &models.ViewSnapshot{
		ID:                  uuid.New(),
		Identity:            identity,
		FetchedAt:           a.now(),
		Stats:               stats,
		MajorDistribution:   majors,
		GrowthSeries:        growth,
		BrowserDistribution: browsers,
		RecentActivity:      activities,
	}, nil
}

// Snapshot mengembalikan snapshot terakhir, nil kalau belum pernah berhasil
func (a *Aggregator) Snapshot() *models.ViewSnapshot {
	return a.snapshot.Load()
}

func (a *Aggregator) OnlineUsers() int {
	return int(a.presence.Load())
}

func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

// StateFor adalah State dari sudut pandang satu identitas: snapshot milik identitas lain
// tidak pernah ikut, begitu juga error dari siklus milik identitas lain.
func (a *Aggregator) StateFor(identity string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.stateLocked()
	if st.Snapshot != nil && st.Snapshot.Identity != identity {
		st.Snapshot = nil
		st.Loading = true
	}
	if a.identity != identity {
		st.Err = nil
		st.Refreshing = false
	}
	return st
}

func (a *Aggregator) stateLocked() State {
	snap := a.snapshot.Load()
	refreshing := false
	if a.inflight != nil {
		select {
		case <-a.inflight:
		default:
			refreshing = true
		}
	}

	return State{
		Snapshot:    snap,
		OnlineUsers: int(a.presence.Load()),
		Loading:     snap == nil,
		Refreshing:  refreshing,
		Err:         a.lastErr,
		LastAttempt: a.lastAttempt,
		Cycle:       a.cycle,
	}
}
