package http

import (
	"net/http"
	"strings"
)

// RouterConfig lists the handlers and middleware the router wires together.
// RequireSession guards the authenticated routes; the public surface (account
// registration, sign in, group browsing, host settings reads, the calendar
// feed, and the event stream) bypasses it. Middleware applies to every route.
type RouterConfig struct {
	Auth           *AuthHandler
	Profile        *ProfileHandler
	Bookings       *BookingHandler
	Groups         *GroupHandler
	Activities     *ActivityHandler
	Works          *WorkHandler
	Host           *HostHandler
	Calendar       *CalendarHandler
	Events         *EventsHandler
	Metrics        http.Handler
	RequireSession func(http.Handler) http.Handler
	Middleware     []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := cfg.RequireSession
	if protect == nil {
		protect = func(next http.Handler) http.Handler { return next }
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateAccount(w, r)
		})
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Profile != nil {
		mux.Handle("/profile", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Profile.GetProfile(w, r)
			case http.MethodPut:
				cfg.Profile.SaveUserInfo(w, r)
			case http.MethodDelete:
				cfg.Profile.DeleteAccount(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})))
		mux.Handle("/profile/avatar", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Profile.SetAvatar(w, r)
		})))
		mux.Handle("/profile/participation", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				cfg.Profile.JoinHost(w, r)
			case http.MethodDelete:
				cfg.Profile.LeaveHost(w, r)
			default:
				methodNotAllowed(w, http.MethodPost, http.MethodDelete)
			}
		})))
	}

	if cfg.Bookings != nil {
		mux.Handle("/bookings", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Bookings.ListOwnBookings(w, r)
			case http.MethodPost:
				cfg.Bookings.CreateBooking(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})))
		mux.Handle("/bookings/", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/bookings/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithEntityID(r.Context(), id))
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Bookings.UpdateBooking(w, r)
		})))
		mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Bookings.ListRooms(w, r)
			case http.MethodPost:
				protect(http.HandlerFunc(cfg.Bookings.AddRoom)).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
	}

	if cfg.Groups != nil {
		mux.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Groups.ListGroups(w, r)
			case http.MethodPost:
				protect(http.HandlerFunc(cfg.Groups.CreateGroup)).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/groups/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/groups/")
			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithEntityID(r.Context(), id))

			switch sub {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Groups.GetGroup(w, r)
				case http.MethodPut:
					protect(http.HandlerFunc(cfg.Groups.UpdateGroup)).ServeHTTP(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut)
				}
			case "members":
				switch r.Method {
				case http.MethodPost:
					protect(http.HandlerFunc(cfg.Groups.JoinGroup)).ServeHTTP(w, r)
				case http.MethodDelete:
					protect(http.HandlerFunc(cfg.Groups.LeaveGroup)).ServeHTTP(w, r)
				default:
					methodNotAllowed(w, http.MethodPost, http.MethodDelete)
				}
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Activities != nil {
		mux.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Activities.ListPublicActivities(w, r)
			case http.MethodPost:
				protect(http.HandlerFunc(cfg.Activities.CreateActivity)).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/activities/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/activities/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if id == "mine" {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				protect(http.HandlerFunc(cfg.Activities.ListOwnActivities)).ServeHTTP(w, r)
				return
			}
			r = r.WithContext(ContextWithEntityID(r.Context(), id))
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			protect(http.HandlerFunc(cfg.Activities.UpdateActivity)).ServeHTTP(w, r)
		})
	}

	if cfg.Works != nil {
		mux.Handle("/works", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Works.ListOwnWorks(w, r)
			case http.MethodPost:
				cfg.Works.CreateWork(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})))
		mux.Handle("/works/", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/works/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithEntityID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				cfg.Works.UpdateWork(w, r)
			case http.MethodDelete:
				cfg.Works.DeleteWork(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})))
	}

	if cfg.Host != nil {
		mux.HandleFunc("/host/settings", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Host.GetSettings(w, r)
			case http.MethodPut:
				protect(http.HandlerFunc(cfg.Host.UpdateSettings)).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
		mux.Handle("/host/settings/menu", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Host.UpdateMenu(w, r)
		})))
		mux.Handle("/host/settings/color", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Host.SetMainColor(w, r)
		})))
		mux.Handle("/host/settings/categories", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Host.SetWorkCategories(w, r)
		})))
	}

	if cfg.Calendar != nil {
		mux.HandleFunc("/calendar.ics", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Calendar.GetFeed(w, r)
		})
	}

	if cfg.Events != nil {
		mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Events.Stream(w, r)
		})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
