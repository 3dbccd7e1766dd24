package handlers

import (
	"io/fs"
	"net/http"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Pages    *PageHandler
	Upload   *UploadHandler
	Generate *GenerateHandler
	Agents   *AgentHandler
	Settings *SettingsHandler
	Static   fs.FS
}

// RegisterRoutes wires every page, form action and JSON endpoint onto the
// mux. Paths that serve both GET and POST switch on the method.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("/static/", http.FileServer(http.FS(h.Static)))

	mux.HandleFunc("/", get(h.Pages.Dashboard))

	mux.HandleFunc("/settings", get(h.Settings.Page))
	mux.HandleFunc("/settings/shopify", post(h.Settings.SaveShopify))
	mux.HandleFunc("/settings/ai", post(h.Settings.SaveAI))

	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Upload.FormPage(w, r)
		case http.MethodPost:
			h.Upload.Process(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/uploads", get(h.Upload.HistoryPage))
	mux.HandleFunc("/uploads/", get(h.Upload.DetailPage))

	mux.HandleFunc("/products/generate", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Pages.ProductGeneratorPage(w, r)
		case http.MethodPost:
			h.Generate.GenerateProduct(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/products/push", post(h.Generate.PushProduct))
	mux.HandleFunc("/products/export", post(h.Generate.ExportProduct))

	mux.HandleFunc("/blog/generate", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Pages.BlogGeneratorPage(w, r)
		case http.MethodPost:
			h.Generate.GenerateBlog(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/blog/publish", post(h.Generate.PublishBlog))
	mux.HandleFunc("/blog/", get(h.Generate.BlogPreview))

	mux.HandleFunc("/pages/generate", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Pages.PageGeneratorPage(w, r)
		case http.MethodPost:
			h.Generate.GeneratePage(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/pages/publish", post(h.Generate.PublishPage))
	mux.HandleFunc("/pages/", get(h.Generate.PagePreview))

	mux.HandleFunc("/captions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Pages.CaptionsPage(w, r)
		case http.MethodPost:
			h.Generate.Captions(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/captions/", get(h.Generate.CaptionResults))

	mux.HandleFunc("/agents/dropshipping", get(h.Agents.DropshippingPage))
	mux.HandleFunc("/agents/store", get(h.Agents.StorePage))
	mux.HandleFunc("/agents/results/", get(h.Agents.Result))

	mux.HandleFunc("/api/agents/", post(h.Agents.Submit))
	mux.HandleFunc("/api/agent-tasks", get(h.Agents.TaskList))
	mux.HandleFunc("/api/agent-tasks/", get(h.Agents.TaskStatus))
	mux.HandleFunc("/api/stores", get(h.Agents.StoreList))
}

func get(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		fn(w, r)
	}
}

func post(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		fn(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
