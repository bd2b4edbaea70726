package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/haroon0x/agent-orchestrator/internal/metrics"
	"github.com/rs/cors"
)

var (
	// Singleton instance of the app's ServeMux, mirroring the teacher's
	// GetAppMux/ResetAppMux test seam so tests exercise the same
	// routing configuration as the running service.
	appMux        *http.ServeMux
	appLauncher   JobLauncher
	appRegistry   JobRegistry
	appSupervisor HealthSupervisor
)

// SetHealthSupervisor registers C8's supervisor with the HTTP layer.
// Checked at request time, so it may be called any time before a
// /monitoring/health request arrives; a nil supervisor (the default)
// makes that endpoint report 503.
func SetHealthSupervisor(sup HealthSupervisor) {
	appSupervisor = sup
}

// GetAppMux returns the application's HTTP ServeMux, constructing it
// once from the given dependencies.
func GetAppMux(mgr JobLauncher, reg JobRegistry) *http.ServeMux {
	if appMux == nil {
		appLauncher = mgr
		appRegistry = reg
		appMux = createAppMux(mgr, reg)
	}
	return appMux
}

// ResetAppMux resets the singleton, for tests that need a fresh mux
// wired to a fresh set of fakes.
func ResetAppMux() {
	appMux = nil
	appLauncher = nil
	appRegistry = nil
	appSupervisor = nil
}

func createAppMux(mgr JobLauncher, reg JobRegistry) *http.ServeMux {
	mux := http.NewServeMux()
	jobs := NewJobHandler(mgr, reg)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		Root(w, r)
	})

	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/monitoring/health", func(w http.ResponseWriter, r *http.Request) {
		if appSupervisor == nil {
			http.Error(w, "health supervisor not running", http.StatusServiceUnavailable)
			return
		}
		HealthSummary(appSupervisor).ServeHTTP(w, r)
	})

	mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		jobs.Schedule(w, r)
	})

	mux.HandleFunc("/status/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/status/")
		jobID, ok := validateJobID(w, id)
		if !ok {
			return
		}
		jobs.Status(w, r, jobID)
	})

	mux.HandleFunc("/cancel/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/cancel/")
		jobID, ok := validateJobID(w, id)
		if !ok {
			return
		}
		jobs.Cancel(w, r, jobID)
	})

	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		jobs.ListJobs(w, r)
	})

	mux.HandleFunc("/job/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/job/")
		jobID, ok := validateJobID(w, id)
		if !ok {
			return
		}
		jobs.GetJob(w, r, jobID)
	})

	mux.HandleFunc("/logs/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/logs/")
		parts := strings.SplitN(path, "/", 2)

		jobID, ok := validateJobID(w, parts[0])
		if !ok {
			return
		}

		if len(parts) == 2 && parts[1] != "" {
			jobs.GetLogFileDownload(w, r, jobID, parts[1])
			return
		}
		jobs.GetLogsSummary(w, r, jobID)
	})

	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/download/")
		jobID, ok := validateJobID(w, id)
		if !ok {
			return
		}
		jobs.Download(w, r, jobID)
	})

	return mux
}

// NewRouter wraps the app mux with CORS handling and request metrics,
// mirroring the teacher's internal/handlers/router.go NewRouter.
func NewRouter(mgr JobLauncher, reg JobRegistry) http.Handler {
	mux := GetAppMux(mgr, reg)
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(withMetrics(mux))
}

// statusRecorder captures the status code a handler writes so
// withMetrics can label the request after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status))
	})
}
