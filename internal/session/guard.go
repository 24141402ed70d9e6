package session

// Guard decides whether navigation to a route is allowed, mirroring the
// web client's route table: protected routes require authentication and
// bounce to the login route, unknown routes land on the catalog.

type Decision struct {
	Allowed    bool
	RedirectTo string
}

type GuardConfig struct {
	// Protected routes require an authenticated session.
	Protected []string
	// Public routes are always allowed.
	Public []string
	// LoginRoute receives redirected unauthenticated navigation.
	LoginRoute string
	// LandingRoute receives navigation to unknown routes. After a login
	// the original destination is not restored; callers forward here.
	LandingRoute string
}

type Guard struct {
	sessions  *Manager
	protected map[string]struct{}
	public    map[string]struct{}
	login     string
	landing   string
}

func NewGuard(sessions *Manager, cfg GuardConfig) *Guard {
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = "/login"
	}
	if cfg.LandingRoute == "" {
		cfg.LandingRoute = "/products"
	}

	g := &Guard{
		sessions:  sessions,
		protected: make(map[string]struct{}, len(cfg.Protected)),
		public:    make(map[string]struct{}, len(cfg.Public)+2),
		login:     cfg.LoginRoute,
		landing:   cfg.LandingRoute,
	}
	for _, route := range cfg.Protected {
		g.protected[route] = struct{}{}
	}
	for _, route := range cfg.Public {
		g.public[route] = struct{}{}
	}
	g.public[cfg.LoginRoute] = struct{}{}
	return g
}

// Authorize resolves a navigation attempt. Unauthenticated access to a
// protected route redirects to login; unknown routes redirect to the
// landing route.
func (g *Guard) Authorize(route string) Decision {
	if _, ok := g.protected[route]; ok {
		if g.sessions.IsAuthenticated() {
			return Decision{Allowed: true}
		}
		return Decision{RedirectTo: g.login}
	}
	if _, ok := g.public[route]; ok {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: g.landing}
}
