package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gotopub/gotopub/internal/journal"
	"github.com/gotopub/gotopub/internal/observability"
	"github.com/gotopub/gotopub/internal/provider"
	"github.com/gotopub/gotopub/internal/resolve"
	"github.com/gotopub/gotopub/internal/suggest"
)

const maxQueryLength = 512

type healthResponse struct {
	Status    string `json:"status"`
	Journals  int    `json:"journals"`
	Providers int    `json:"providers"`
}

type suggestResponse struct {
	Request     string               `json:"request"`
	Source      string               `json:"source"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

type resolveResponse struct {
	Request resolve.Request `json:"request"`
	Result  *resolve.Result `json:"result"`
}

// resolveErrorResponse keys the user-facing message by the offending field.
type resolveErrorResponse struct {
	Request resolve.Request   `json:"request"`
	Message map[string]string `json:"message"`
	Kind    resolve.Kind      `json:"kind"`
}

type providersResponse struct {
	Providers []provider.Info `json:"providers"`
}

type journalsResponse struct {
	Journals []journal.Entry `json:"journals"`
	Total    int             `json:"total"`
}

// suggestHandler handles GET /api/suggests?q=&source=.
func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	source := r.URL.Query().Get("source")
	if len(q) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "q is too long")
		return
	}

	suggestions, err := s.matcher.Suggest(q, source)
	if err != nil {
		if errors.Is(err, suggest.ErrInvalidSource) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("suggest failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if source == "" {
		source = suggest.SourceName
	}
	s.metrics.RecordSuggestion(source)
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{
		Request:     q,
		Source:      source,
		Suggestions: suggestions,
	})
}

// urlHandler handles GET /api/url?journal=&volume=&page=.
func (s *Server) urlHandler(w http.ResponseWriter, r *http.Request) {
	s.resolveHandler(w, r, resolve.ActionURL)
}

// doiHandler handles GET /api/doi?journal=&volume=&page=.
func (s *Server) doiHandler(w http.ResponseWriter, r *http.Request) {
	s.resolveHandler(w, r, resolve.ActionDOI)
}

func (s *Server) resolveHandler(w http.ResponseWriter, r *http.Request, action resolve.Action) {
	query := r.URL.Query()
	req := resolve.Request{
		Journal: query.Get("journal"),
		Volume:  query.Get("volume"),
		Page:    query.Get("page"),
		Action:  action,
	}

	res, err := s.resolver.Resolve(req)
	if err != nil {
		s.writeResolveError(w, req, err)
		return
	}
	s.metrics.RecordResolution(string(action), "")

	observability.WithCitationContext(s.logger, req.Journal, req.Volume, req.Page).
		Debug().Str("url", res.URL).Msg("citation resolved")
	writeJSON(w, http.StatusOK, resolveResponse{Request: req, Result: res})
}

func (s *Server) writeResolveError(w http.ResponseWriter, req resolve.Request, err error) {
	var rerr *resolve.Error
	if !errors.As(err, &rerr) {
		s.logger.Error().Err(err).Msg("resolve failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.metrics.RecordResolution(string(req.Action), string(rerr.Kind))

	status := statusForKind(rerr.Kind)
	if status >= 500 {
		observability.WithCitationContext(s.logger, req.Journal, req.Volume, req.Page).
			Error().Str("kind", string(rerr.Kind)).Msg(rerr.Message)
	}

	field := rerr.Field
	if field == "" {
		field = "request"
	}
	writeJSON(w, status, resolveErrorResponse{
		Request: req,
		Message: map[string]string{field: rerr.Message},
		Kind:    rerr.Kind,
	})
}

// statusForKind maps a failure kind to an HTTP status: user mistakes are
// 400, a POST-only publisher is 501, a broken directory is 500.
func statusForKind(kind resolve.Kind) int {
	switch kind {
	case resolve.KindUnsupportedMethod:
		return http.StatusNotImplemented
	case resolve.KindConfigurationIntegrity:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// providersHandler handles GET /api/providers.
func (s *Server) providersHandler(w http.ResponseWriter, r *http.Request) {
	all := s.resolver.Providers().All()
	infos := make([]provider.Info, len(all))
	for i, p := range all {
		infos[i] = p.Info()
	}
	writeJSON(w, http.StatusOK, providersResponse{Providers: infos})
}

// journalsHandler handles GET /api/journals?provider=.
func (s *Server) journalsHandler(w http.ResponseWriter, r *http.Request) {
	dir := s.resolver.Journals()

	var entries []journal.Entry
	if key := strings.TrimSpace(r.URL.Query().Get("provider")); key != "" {
		entries = dir.ByProvider(key)
	} else {
		entries = dir.Entries()
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	writeJSON(w, http.StatusOK, journalsResponse{Journals: entries, Total: len(entries)})
}
