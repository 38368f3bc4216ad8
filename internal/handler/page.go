package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorechart/internal/chore"
	"github.com/dukerupert/chorechart/internal/model"
)

// KidGroup is one kid's tasks, in display order.
type KidGroup struct {
	Kid   string
	Tasks []model.DailyTask
}

type PageData struct {
	Today   string
	KidName string
	KidList []string
	Tasks   []model.DailyTask
	Groups  []KidGroup
}

type PageHandler struct {
	svc       *chore.Service
	templates *template.Template
	logger    *slog.Logger
}

func NewPageHandler(svc *chore.Service, templates *template.Template, logger *slog.Logger) *PageHandler {
	return &PageHandler{svc: svc, templates: templates, logger: logger}
}

// Index renders every kid's tasks for today with a link per kid.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	tasks, today, err := h.svc.ListToday("")
	if err != nil {
		h.logger.Error("load tasks", "error", err)
		http.Error(w, "failed to load tasks", http.StatusInternalServerError)
		return
	}

	h.render(w, "index.html", PageData{
		Today:   today,
		KidList: chore.Kids(tasks),
		Tasks:   tasks,
		Groups:  groupByKid(tasks),
	})
}

// Kid renders one kid's tasks for today. An unknown kid gets an empty list.
func (h *PageHandler) Kid(w http.ResponseWriter, r *http.Request) {
	kid := r.PathValue("kid")
	if kid == "" {
		http.NotFound(w, r)
		return
	}

	tasks, today, err := h.svc.ListToday(kid)
	if err != nil {
		h.logger.Error("load tasks", "kid", kid, "error", err)
		http.Error(w, "failed to load tasks", http.StatusInternalServerError)
		return
	}

	h.render(w, "index.html", PageData{
		Today:   today,
		KidName: kid,
		Tasks:   tasks,
		Groups:  groupByKid(tasks),
	})
}

// render buffers the page so a template error can still become a 500.
func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template render", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// groupByKid splits tasks, already sorted by kid, into consecutive groups.
func groupByKid(tasks []model.DailyTask) []KidGroup {
	var groups []KidGroup
	for _, t := range tasks {
		if n := len(groups); n == 0 || groups[n-1].Kid != t.Kid {
			groups = append(groups, KidGroup{Kid: t.Kid})
		}
		last := &groups[len(groups)-1]
		last.Tasks = append(last.Tasks, t)
	}
	return groups
}
