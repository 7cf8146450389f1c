// Package resolve turns a citation (journal, volume, page) into the URL of the article.
package resolve

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gotopub/gotopub/internal/journal"
	"github.com/gotopub/gotopub/internal/provider"
)

// Action selects what a resolution produces.
type Action string

// Supported actions.
const (
	ActionURL Action = "url"
	ActionDOI Action = "doi"
)

// DOIResolverURL prefixes a DOI to make it browsable.
const DOIResolverURL = "https://doi.org/"

// Strict: the legacy /[0-9]*/ test matched any string.
var integerPattern = regexp.MustCompile(`^[0-9]+$`)

// Request is a citation to resolve.
type Request struct {
	Journal string `json:"journal"`
	Volume  string `json:"volume"`
	Page    string `json:"page"`
	Action  Action `json:"action,omitempty"`
}

// Result is a resolved citation.
type Result struct {
	URL      string        `json:"url"`
	Method   string        `json:"method"`
	DOI      string        `json:"doi,omitempty"`
	Journal  string        `json:"journal"`
	Provider provider.Info `json:"provider"`
}

// Resolver resolves citations against a journal directory and a provider registry.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	journals  *journal.Directory
	providers *provider.Registry
}

// New creates a resolver.
func New(journals *journal.Directory, providers *provider.Registry) *Resolver {
	return &Resolver{journals: journals, providers: providers}
}

// Journals returns the directory the resolver reads from.
func (r *Resolver) Journals() *journal.Directory {
	return r.journals
}

// Providers returns the registry the resolver reads from.
func (r *Resolver) Providers() *provider.Registry {
	return r.providers
}

// Resolve validates req and builds the destination. Errors are always *Error.
// An empty action means ActionURL.
func (r *Resolver) Resolve(req Request) (*Result, error) {
	volume := strings.TrimSpace(req.Volume)
	page := strings.TrimSpace(req.Page)

	if req.Journal == "" {
		return nil, newError(KindEmptyField, FieldJournal, "Journal cannot be empty")
	}
	entry, ok := r.journals.Lookup(req.Journal)
	if !ok {
		return nil, newError(KindUnknownJournal, FieldJournal, "Unknown journal %q", req.Journal)
	}

	if err := checkInteger(FieldVolume, "Volume", volume); err != nil {
		return nil, err
	}
	id, ok := entry.Identifier(volume)
	if !ok {
		return nil, newError(KindInvalidFormat, FieldVolume, "Volume %s does not exist for %s", volume, entry.Name)
	}
	if err := checkInteger(FieldPage, "Page", page); err != nil {
		return nil, err
	}

	p, ok := r.providers.Lookup(entry.Provider)
	if !ok {
		return nil, newError(KindConfigurationIntegrity, FieldJournal,
			"Even though journal %q is correct, there is no valid provider %q associated", entry.Name, entry.Provider)
	}

	action := req.Action
	if action == "" {
		action = ActionURL
	}
	if action != ActionURL && action != ActionDOI {
		return nil, newError(KindUnsupportedAction, FieldAction, "Unsupported action %q (valid: %s, %s)", action, ActionURL, ActionDOI)
	}

	if p.Method != provider.MethodGet {
		return nil, newError(KindUnsupportedMethod, "", "%s: %s not yet implemented", p.Name, p.Method)
	}

	result := &Result{
		Method:   p.Method,
		Journal:  entry.Name,
		Provider: p.Info(),
	}

	switch action {
	case ActionDOI:
		if !p.SupportsDOI() {
			return nil, newError(KindUnsupportedAction, FieldAction, "%s does not support DOI lookup", p.Name)
		}
		doi, err := p.DOI(id, volume, page)
		if err != nil {
			return nil, newError(KindUnsupportedAction, FieldAction, "%v", err)
		}
		result.DOI = doi
		result.URL = DOIURL(doi)
	default:
		result.URL = p.URL(id, volume, page)
	}

	return result, nil
}

// DOIURL makes a DOI browsable. Segments are path-escaped one by one so the
// separating slashes survive.
func DOIURL(doi string) string {
	segments := strings.Split(doi, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return DOIResolverURL + strings.Join(segments, "/")
}

// checkInteger validates a volume or page value.
func checkInteger(field, label, value string) error {
	if value == "" {
		return newError(KindEmptyField, field, "%s cannot be empty", label)
	}
	if !integerPattern.MatchString(value) {
		return newError(KindInvalidFormat, field, "%s should be an integer", label)
	}
	return nil
}
