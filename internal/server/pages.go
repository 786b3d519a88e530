package server

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/services/cluster"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Pages serves the server-rendered dashboard. The landing page is
// public; everything under /dashboard sits behind the page guard.
type Pages struct {
	cluster *cluster.Service
}

// NewPages creates the page handlers.
func NewPages(clusterService *cluster.Service) *Pages {
	return &Pages{cluster: clusterService}
}

// HandleIndex renders the public landing page with the login form.
func (p *Pages) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	p.render(w, "index.html", nil)
}

type clusterPageData struct {
	User  *models.User
	Nodes []models.ClusterNode
}

// HandleClusterSettings renders the cluster settings page. The guard
// has already verified an admin session.
func (p *Pages) HandleClusterSettings(w http.ResponseWriter, r *http.Request) {
	nodes, err := p.cluster.GetNodes(r.Context())
	if err != nil {
		log.Printf("cluster page: list nodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	p.render(w, "cluster.html", clusterPageData{
		User:  auth.GetUserFromContext(r.Context()),
		Nodes: nodes,
	})
}

func (p *Pages) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}
