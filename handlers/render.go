package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billbook/services"
)

// renderTimeout bounds a single document generation. PDF composition of
// a pathological job must not hold the request forever.
const renderTimeout = 60 * time.Second

var errRenderTimeout = errors.New("document generation timed out")

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HandleJobDocument serves GET /jobs/{id}/document/{file} where file is
// "{type}.{ext}", e.g. quotation.pdf, bill.xlsx, challan.html. The
// optional config query parameter carries JSON overrides applied on top
// of the stored render settings.
func HandleJobDocument(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		jobID := e.Request.PathValue("id")
		docType, ext, err := parseDocumentFile(e.Request.PathValue("file"))
		if err != nil {
			return e.String(http.StatusBadRequest, err.Error())
		}

		cfg, err := services.ResolveRenderConfig(app, []byte(e.Request.URL.Query().Get("config")))
		if err != nil {
			return e.String(http.StatusBadRequest, "Invalid config overrides")
		}

		job, err := services.LoadJobData(app, jobID)
		if err != nil {
			log.Printf("job_document: %v", err)
			return e.String(http.StatusNotFound, "Job not found")
		}

		doc, err := services.BuildJobDocument(job, docType, cfg)
		if err != nil {
			log.Printf("job_document: build: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to build document")
		}

		return writeDocuments(e, []*services.Document{doc}, ext, cfg, doc.Meta.DocumentNumber)
	}
}

// HandleJobBulkDocument serves POST /jobs/documents/{type}/{ext} with a
// {"ids": [...]} body: one page or sheet per job, index-suffixed
// document numbers.
func HandleJobBulkDocument(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		docType, err := services.ParseDocType(e.Request.PathValue("type"))
		if err != nil {
			return e.String(http.StatusBadRequest, "Unknown document type")
		}
		ext := e.Request.PathValue("ext")
		if ext != "pdf" && ext != "xlsx" {
			return e.String(http.StatusBadRequest, "Unknown document format")
		}

		var req struct {
			IDs []string `json:"ids"`
		}
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if len(req.IDs) == 0 {
			return e.String(http.StatusBadRequest, "No job IDs supplied")
		}

		cfg, err := services.ResolveRenderConfig(app, []byte(e.Request.URL.Query().Get("config")))
		if err != nil {
			return e.String(http.StatusBadRequest, "Invalid config overrides")
		}

		jobs := make([]*services.JobData, 0, len(req.IDs))
		for _, id := range req.IDs {
			job, err := services.LoadJobData(app, id)
			if err != nil {
				log.Printf("job_bulk_document: %v", err)
				return e.String(http.StatusNotFound, fmt.Sprintf("Job %s not found", id))
			}
			jobs = append(jobs, job)
		}

		docs, err := services.BuildBulkJobDocuments(jobs, docType, cfg)
		if err != nil {
			log.Printf("job_bulk_document: build: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to build documents")
		}

		filename := fmt.Sprintf("%s-bulk-%s", docType.Prefix(), time.Now().Format("20060102"))
		return writeDocuments(e, docs, ext, cfg, filename)
	}
}

// HandleTopsheetDocument serves GET /topsheets/{id}/document/{file}
// where file is "document.{ext}".
func HandleTopsheetDocument(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		topsheetID := e.Request.PathValue("id")
		name, ext, ok := strings.Cut(e.Request.PathValue("file"), ".")
		if !ok || name != "document" || !validExtension(ext) {
			return e.String(http.StatusBadRequest, "Unknown document format")
		}

		cfg, err := services.ResolveRenderConfig(app, []byte(e.Request.URL.Query().Get("config")))
		if err != nil {
			return e.String(http.StatusBadRequest, "Invalid config overrides")
		}

		ts, err := services.LoadTopsheetData(app, topsheetID)
		if err != nil {
			log.Printf("topsheet_document: %v", err)
			return e.String(http.StatusNotFound, "Topsheet not found")
		}

		doc, err := services.BuildTopsheetDocument(ts, cfg)
		if err != nil {
			log.Printf("topsheet_document: build: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to build document")
		}

		return writeDocuments(e, []*services.Document{doc}, ext, cfg, ts.Number)
	}
}

// ── Shared plumbing ──────────────────────────────────────────────────

func parseDocumentFile(file string) (services.DocType, string, error) {
	typeName, ext, ok := strings.Cut(file, ".")
	if !ok || !validExtension(ext) {
		return "", "", errors.New("Unknown document format")
	}
	docType, err := services.ParseDocType(typeName)
	if err != nil {
		return "", "", errors.New("Unknown document type")
	}
	return docType, ext, nil
}

func validExtension(ext string) bool {
	return ext == "html" || ext == "pdf" || ext == "xlsx"
}

// writeDocuments renders the documents in the requested format and
// writes them with download headers. Generation runs under the render
// timeout; HTML is served inline, the binary formats as attachments.
func writeDocuments(e *core.RequestEvent, docs []*services.Document, ext string, cfg services.RenderConfig, baseName string) error {
	switch ext {
	case "html":
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		component := services.HTMLComponent(docs, cfg)
		if err := component.Render(e.Request.Context(), e.Response); err != nil {
			log.Printf("render: html: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate document")
		}
		return nil

	case "pdf":
		data, err := generateWithTimeout(func() ([]byte, error) {
			return services.RenderPDF(docs, cfg)
		})
		if err != nil {
			return renderError(e, "pdf", err)
		}
		return writeAttachment(e, contentTypePDF, sanitizeFilename(baseName)+".pdf", data)

	case "xlsx":
		data, err := generateWithTimeout(func() ([]byte, error) {
			return services.RenderExcel(docs, cfg)
		})
		if err != nil {
			return renderError(e, "xlsx", err)
		}
		return writeAttachment(e, contentTypeXLSX, sanitizeFilename(baseName)+".xlsx", data)
	}
	return e.String(http.StatusBadRequest, "Unknown document format")
}

func renderError(e *core.RequestEvent, format string, err error) error {
	log.Printf("render: %s: %v", format, err)
	if errors.Is(err, errRenderTimeout) {
		return e.String(http.StatusInternalServerError, "Document generation timed out")
	}
	return e.String(http.StatusInternalServerError, "Failed to generate document")
}

func writeAttachment(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(data)
	return err
}

// generateWithTimeout runs fn in a goroutine and abandons it after the
// render timeout. The goroutine keeps running to completion either way;
// its result is simply dropped once the caller has moved on.
func generateWithTimeout(fn func() ([]byte, error)) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := fn()
		done <- result{data, err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-time.After(renderTimeout):
		return nil, errRenderTimeout
	}
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
