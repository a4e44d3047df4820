// Package transport serves the ignoring-blocks view over HTTP.
package transport

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"ignorebtc/internal/db"
	"ignorebtc/internal/metrics"
	"ignorebtc/internal/view"
	"ignorebtc/pkg/models"

	"go.uber.org/zap"
)

const defaultViewportWidth = 1000

// ReportLoader reads stored reports.
type ReportLoader interface {
	LoadReport(ctx context.Context, txID string, algo models.Algorithm) (models.ReportInput, models.TransactionContext, error)
}

type IgnoringHandler struct {
	loader ReportLoader
	layout view.Layout
	logger *zap.Logger
}

func NewIgnoringHandler(loader ReportLoader, layout view.Layout, logger *zap.Logger) *IgnoringHandler {
	return &IgnoringHandler{
		loader: loader,
		layout: layout,
		logger: logger,
	}
}

// Routes registers the handler endpoints on a new mux.
func (h *IgnoringHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tx/{txid}/ignoring/{algo}", h.Ignoring)
	mux.HandleFunc("GET /healthz", h.Health)
	return mux
}

func (h *IgnoringHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Ignoring renders the view of one transaction. The viewport width comes from
// the width query parameter.
func (h *IgnoringHandler) Ignoring(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	txID := r.PathValue("txid")

	algo, err := models.ParseAlgorithm(r.PathValue("algo"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vp := view.Viewport{Width: defaultViewportWidth}
	if s := r.URL.Query().Get("width"); s != "" {
		if vp.Width, err = strconv.Atoi(s); err != nil || vp.Width < 0 {
			http.Error(w, "invalid width", http.StatusBadRequest)
			return
		}
	}

	in, txCtx, err := h.loader.LoadReport(r.Context(), txID, algo)
	if errors.Is(err, db.ErrReportNotFound) {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load report", zap.String("txid", txID), zap.Stringer("algo", algo), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	v := view.Build(in, txCtx, algo)

	var buf bytes.Buffer
	if err := renderHTML(&buf, v, h.layout.ContainerWidth(vp)); err != nil {
		h.logger.Error("Failed to render view", zap.String("txid", txID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
	metrics.ObserveRender("html", view.Kind(v), started)
}

var ignoringTemplate = template.Must(template.New("ignoring").Parse(`
{{- if or .Notice .Report -}}
<div id="ignoringTxsSection">
{{- with .Notice}}<h3>{{.}}</h3>{{end}}
{{- with .Report}}
<div>
<h3>{{.Heading}}</h3>
<div class="ignoringBlocks" style="width: {{$.Width}}px; overflow: scroll">
<table class="ignoringBlocksTableStats">
<thead><tr>{{range .Summary.Headers}}{{if .Note}}<th class="CellWithComment">{{.Title}}:<span class="CellComment">{{.Note}}</span></th>{{else}}<th>{{.Title}}</th>{{end}}{{end}}</tr></thead>
<tbody><tr>{{range .Summary.Values}}<td>{{.}}</td>{{end}}</tr></tbody>
</table>
<br>
<table class="ignoringBlocksTable">
<tbody>
{{- range .Detail.Rows}}
<tr><td>{{.Label}}</td>{{range .Cells}}<td{{if .Note}} class="CellWithComment"{{end}}>{{if .Link}}<a href="{{.Link}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}{{if .Note}}<span class="CellComment">{{.Note}}</span>{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</div>
</div>
{{- end}}
</div>
{{end -}}
`))

type htmlView struct {
	Notice string
	Report *view.Report
	Width  int
}

func renderHTML(buf *bytes.Buffer, v view.View, width int) error {
	data := htmlView{Width: width}
	switch v := v.(type) {
	case view.Notice:
		data.Notice = v.Text
	case view.Report:
		data.Report = &v
	}
	return ignoringTemplate.Execute(buf, data)
}
