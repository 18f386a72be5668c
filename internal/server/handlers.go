package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/qlabel/pkg/buildinfo"
	"github.com/matzehuels/qlabel/pkg/errors"
	"github.com/matzehuels/qlabel/pkg/label"
	"github.com/matzehuels/qlabel/pkg/pipeline"
)

const maxBodyBytes = 1 << 20

// printResponse is the body of /api/print/text.
type printResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	JobID   string `json:"job_id,omitempty"`
	Data    string `json:"data,omitempty"` // base64 PNG, dry run only
}

type labelSize struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	TwoColor bool   `json:"two_color,omitempty"`
}

type configResponse struct {
	FontFamilyNames []string            `json:"font_family_names"`
	Fonts           map[string][]string `json:"fonts"`
	DefaultFont     string              `json:"default_font"`
	LabelSizes      []labelSize         `json:"label_sizes"`
	Label           label.Params        `json:"label"`
	Website         websiteResponse     `json:"website"`
}

type websiteResponse struct {
	HTMLTitle    string `json:"html_title"`
	PageTitle    string `json:"page_title"`
	PageHeadline string `json:"page_headline"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	resp := configResponse{
		FontFamilyNames: s.fonts.Families(),
		Fonts:           make(map[string][]string),
		DefaultFont:     s.fonts.Default().String(),
		Label:           s.cfg.LabelDefaults(),
		Website: websiteResponse{
			HTMLTitle:    s.cfg.Website.HTMLTitle,
			PageTitle:    s.cfg.Website.PageTitle,
			PageHeadline: s.cfg.Website.PageHeadline,
		},
	}
	for _, family := range resp.FontFamilyNames {
		resp.Fonts[family] = s.fonts.Styles(family)
	}
	for _, st := range s.runner.Resolver.Catalog.All() {
		resp.LabelSizes = append(resp.LabelSizes, labelSize{
			ID:       st.ID,
			Name:     st.Name,
			Kind:     st.Kind.String(),
			Width:    st.DotsPrintable[0],
			Height:   st.DotsPrintable[1],
			TwoColor: st.TwoColor,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.runner.History == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entries": []any{}})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			writeJSON(w, http.StatusBadRequest, printResponse{Error: "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}
	entries, err := s.runner.History.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("read history", "err", err)
		writeJSON(w, http.StatusInternalServerError, printResponse{Error: "could not read history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.params(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := r.URL.Query().Get("return_format")
	if format == "" {
		format = pipeline.FormatPNG
	}

	data, err := s.runner.Preview(r.Context(), p, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if format == pipeline.FormatBase64 {
		w.Header().Set("Content-Type", "text/plain")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	p, err := s.params(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Print(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := printResponse{Success: true, JobID: res.JobID}
	if res.Data != nil {
		resp.Data = base64.StdEncoding.EncodeToString(res.Data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// params decodes the request into label parameters on top of the
// configured defaults.
func (s *Server) params(r *http.Request) (label.Params, error) {
	values, err := requestValues(r)
	if err != nil {
		return label.Params{}, err
	}
	return label.ParseParams(values, s.cfg.LabelDefaults())
}

// requestValues merges query parameters with a form or JSON body.
// Body values win over query values.
func requestValues(r *http.Request) (label.Values, error) {
	values := label.Values{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	if r.Method != http.MethodPost || r.Body == nil {
		return values, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
		}
		for k, v := range body {
			switch v := v.(type) {
			case nil:
			case string:
				values[k] = v
			case float64:
				values[k] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				values[k] = strconv.FormatBool(v)
			default:
				return nil, errors.New(errors.ErrCodeInvalidInput, "invalid %s: must be a string or number", k)
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid form body")
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid form body")
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
	}
	return values, nil
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodePrinter):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := printResponse{}
	switch status {
	case http.StatusBadRequest:
		resp.Error = errors.UserMessage(err)
	case http.StatusBadGateway:
		resp.Message = errors.UserMessage(err)
		s.logger.Warn("print failed", "err", err)
	default:
		resp.Error = "internal error"
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"success":false,"error":%q}`, err.Error())
	}
}
