package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/ritzau/emit-analyzer/pkg/cycles"
	"github.com/ritzau/emit-analyzer/pkg/graph"
	"github.com/ritzau/emit-analyzer/pkg/logging"
	"github.com/ritzau/emit-analyzer/pkg/pubsub"
	"github.com/ritzau/emit-analyzer/pkg/rebuild"
)

//go:embed static/*
var staticFiles embed.FS

// GraphNode represents a node in the usage graph visualization
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"` // "component", "directive", "pipe", "module", "unresolved"
	Path  string `json:"path"`
}

// GraphEdge represents an edge in the usage graph visualization
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // "uses" or "declares"
}

// GraphPayload holds the usage graph for visualization
type GraphPayload struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// CyclePayload is one usage cycle for visualization
type CyclePayload struct {
	Symbols []string `json:"symbols"`
}

// Server represents the web server
type Server struct {
	router    *mux.Router
	rebuilder *rebuild.Rebuilder
	publisher pubsub.Publisher

	mu            sync.Mutex
	graphSnapshot *GraphSnapshot // last published graph, for diffing
}

// NewServer creates a new web server over the given rebuilder
func NewServer(rebuilder *rebuild.Rebuilder) *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// build_status: buffer last 10 events, replay only last event to new
	// subscribers so a reconnecting client sees the current state
	ssePublisher.ConfigureTopic(pubsub.TopicBuildStatus, pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})

	// usage_graph: buffer last 5 events, replay only last event
	ssePublisher.ConfigureTopic(pubsub.TopicUsageGraph, pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		rebuilder: rebuilder,
		publisher: ssePublisher,
	}
	s.setupRoutes()
	return s
}

// PublishBuildStatus publishes a build status event
func (s *Server) PublishBuildStatus(state, message string, build *rebuild.BuildResult) error {
	status := pubsub.BuildStatus{
		State:   state,
		Message: message,
	}
	if build != nil {
		status.BuildID = build.ID
		status.NeedsEmit = build.NeedsEmit
	}
	return s.publisher.Publish(pubsub.TopicBuildStatus, state, status)
}

// PublishUsageGraph publishes a usage graph event carrying the counts and
// the diff against the previously published graph, so clients can update
// incrementally instead of refetching everything.
func (s *Server) PublishUsageGraph(eventType string, complete bool) error {
	payload := buildGraphPayload(graph.BuildUsageGraph(s.rebuilder.Snapshot()))

	s.mu.Lock()
	diff := ComputeDiff(s.graphSnapshot, payload)
	s.graphSnapshot = CreateSnapshot(payload)
	s.mu.Unlock()

	data := struct {
		pubsub.UsageGraphData
		Diff *GraphDiff `json:"diff"`
	}{
		UsageGraphData: pubsub.UsageGraphData{
			SymbolsCount: len(payload.Nodes),
			EdgesCount:   len(payload.Edges),
			Complete:     complete,
		},
		Diff: diff,
	}
	return s.publisher.Publish(pubsub.TopicUsageGraph, eventType, data)
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)

	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/build_status", s.subscribeHandler(pubsub.TopicBuildStatus)).Methods("GET")
	s.router.HandleFunc("/api/subscribe/usage_graph", s.subscribeHandler(pubsub.TopicUsageGraph)).Methods("GET")

	// API routes - more specific routes must come first
	s.router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/api/emits", s.handleEmits).Methods("GET")
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/cycles", s.handleCycles).Methods("GET")

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// subscribeHandler streams a topic's events as Server-Sent Events
func (s *Server) subscribeHandler(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

		// Send initial comment to establish connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				log.Printf("Error writing SSE event: %v", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	build := s.rebuilder.LastBuild()
	if build == nil {
		http.Error(w, "No build has completed yet", http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(w).Encode(build)
}

func (s *Server) handleEmits(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	build := s.rebuilder.LastBuild()
	if build == nil {
		json.NewEncoder(w).Encode([]string{})
		return
	}

	emits := build.NeedsEmit
	if emits == nil {
		emits = []string{}
	}
	json.NewEncoder(w).Encode(emits)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ug := graph.BuildUsageGraph(s.rebuilder.Snapshot())
	json.NewEncoder(w).Encode(buildGraphPayload(ug))
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ug := graph.BuildUsageGraph(s.rebuilder.Snapshot())

	payload := make([]CyclePayload, 0)
	for _, cycle := range cycles.FindUsageCycles(ug) {
		payload = append(payload, CyclePayload{Symbols: cycle.Names()})
	}
	json.NewEncoder(w).Encode(payload)
}

// buildGraphPayload converts the usage graph into the visualization format
func buildGraphPayload(ug *graph.UsageGraph) *GraphPayload {
	payload := &GraphPayload{
		Nodes: make([]GraphNode, 0),
		Edges: make([]GraphEdge, 0),
	}

	for _, node := range ug.Nodes() {
		payload.Nodes = append(payload.Nodes, GraphNode{
			ID:    nodeID(node),
			Label: node.Name,
			Type:  node.Kind,
			Path:  node.Path,
		})
	}

	for _, edge := range ug.Edges() {
		payload.Edges = append(payload.Edges, GraphEdge{
			Source: nodeID(edge.From),
			Target: nodeID(edge.To),
			Type:   string(edge.Kind),
		})
	}

	return payload
}

// nodeID makes a stable visualization ID. Unresolved references have no
// path, so the name alone identifies them.
func nodeID(node *graph.SymbolNode) string {
	if node.Path == "" {
		return "external:" + node.Name
	}
	return node.Path + "#" + node.Name
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.router)
}
