package viz

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/google/uuid"
)

// ErrJobNotFound is returned when a job identifier is unknown.
var ErrJobNotFound = errors.New("visualization job not found")

// Status is a job's lifecycle state: starting, in_progress (repeated),
// then exactly one of complete or error. No cancellation exists; a
// submitted job runs to a terminal state.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Progress is one milestone of a running job, polled or streamed by
// the caller.
type Progress struct {
	Status     Status `json:"status"`
	Stage      string `json:"stage,omitempty"`
	Percent    int    `json:"progress"`
	Message    string `json:"message"`
	TotalNodes int    `json:"total_nodes"`
	URL        string `json:"url"`
}

// Terminal reports whether the job has finished, successfully or not.
func (p Progress) Terminal() bool {
	return p.Status == StatusComplete || p.Status == StatusError
}

// Manager runs visualization jobs as background tasks and tracks their
// progress in a registry keyed by job ID. Each job owns its own output
// slot (derived from center node and depth) and its own registry key,
// so concurrent jobs never interfere.
type Manager struct {
	store     *graph.Store
	outputDir string
	log       *slog.Logger

	mu   sync.RWMutex
	jobs map[string]Progress
}

// NewManager returns a manager writing artifacts into outputDir.
func NewManager(store *graph.Store, outputDir string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:     store,
		outputDir: outputDir,
		log:       log,
		jobs:      make(map[string]Progress),
	}
}

// Submit validates the center node, registers a new job, and starts it
// in the background. It returns the job ID and the artifact URL path
// the job will write.
func (m *Manager) Submit(center string, depth int) (string, string, error) {
	node, ok := m.store.Node(center)
	if !ok {
		return "", "", graph.ErrNodeNotFound
	}
	if depth < 1 {
		depth = 1
	}

	jobID := uuid.NewString()
	fileName := fmt.Sprintf("viz_%s_%d.html", sanitizeName(center), depth)
	urlPath := "/" + path(m.outputDir, fileName)

	m.setProgress(jobID, Progress{
		Status:  StatusStarting,
		Percent: 0,
		Message: "Initializing...",
		URL:     urlPath,
	})

	title := fmt.Sprintf("%s: %s", node.Type, center)
	description := fmt.Sprintf("Interactive network visualization showing connections at depth %d", depth)

	go m.run(jobID, center, depth, fileName, urlPath, RenderOptions{Title: title, Description: description})
	return jobID, urlPath, nil
}

// Progress returns the latest milestone of a job.
func (m *Manager) Progress(jobID string) (Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.jobs[jobID]
	if !ok {
		return Progress{}, ErrJobNotFound
	}
	return p, nil
}

// Evict drops a finished job from the registry. Unknown or still
// running jobs are left alone.
func (m *Manager) Evict(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.jobs[jobID]; ok && p.Terminal() {
		delete(m.jobs, jobID)
	}
}

// run executes one job to a terminal state. Failures are captured into
// the job's error state; they never propagate out of the goroutine.
func (m *Manager) run(jobID, center string, depth int, fileName, urlPath string, opts RenderOptions) {
	fail := func(err error) {
		m.log.Error("visualization job failed", "job", jobID, "center", center, "error", err)
		m.setProgress(jobID, Progress{
			Status:  StatusError,
			Percent: 0,
			Message: err.Error(),
			URL:     urlPath,
		})
	}
	update := func(stage string, percent int, message string, total int) {
		m.setProgress(jobID, Progress{
			Status:     StatusInProgress,
			Stage:      stage,
			Percent:    percent,
			Message:    message,
			TotalNodes: total,
			URL:        urlPath,
		})
	}

	update("extract", 10, "Extracting subgraph...", 0)
	sub, err := m.store.Subgraph(center, depth)
	if err != nil {
		fail(err)
		return
	}
	total := sub.NodeCount()
	update("extract", 30, fmt.Sprintf("Extracted %d nodes", total), total)

	update("analyze", 40, "Analyzing graph structure...", total)
	update("create", 50, "Creating network visualization...", total)
	update("nodes", 60, "Adding nodes to visualization...", total)

	html, err := Render(sub, opts)
	if err != nil {
		fail(err)
		return
	}
	update("edges", 75, "Adding connections...", total)

	update("save", 90, "Saving visualization...", total)
	if err := os.MkdirAll(m.outputDir, 0o755); err != nil {
		fail(err)
		return
	}
	if err := os.WriteFile(filepath.Join(m.outputDir, fileName), []byte(html), 0o644); err != nil {
		fail(err)
		return
	}
	update("finalize", 95, "Finalizing...", total)

	m.log.Info("visualization complete", "job", jobID, "center", center, "nodes", total, "file", fileName)
	m.setProgress(jobID, Progress{
		Status:     StatusComplete,
		Percent:    100,
		Message:    "Visualization complete!",
		TotalNodes: total,
		URL:        urlPath,
	})
}

func (m *Manager) setProgress(jobID string, p Progress) {
	m.mu.Lock()
	m.jobs[jobID] = p
	m.mu.Unlock()
}

// sanitizeName makes a center node name safe for use in a file name.
// The length cap counts runes so multibyte names stay valid UTF-8.
func sanitizeName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ",", "")
	s := r.Replace(name)
	if runes := []rune(s); len(runes) > 50 {
		s = string(runes[:50])
	}
	return s
}

func path(dir, file string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Join(dir, file)), "./")
}
