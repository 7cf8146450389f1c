// Package provider defines the publisher platforms a citation can be resolved on.
package provider

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// HTTP methods a provider can require.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Template placeholders.
const (
	PlaceholderJournal = "$JOURNAL"
	PlaceholderVolume  = "$VOLUME"
	PlaceholderPage    = "$PAGE"
)

// ErrDuplicateKey is returned when two providers share a key.
var ErrDuplicateKey = errors.New("duplicate provider key")

// ErrNoDOI is returned when a provider cannot build DOIs.
var ErrNoDOI = errors.New("provider does not support DOI lookup")

// BuildFunc builds a provider URL from a journal identifier, volume and page.
// It must be pure.
type BuildFunc func(journal, volume, page string) string

// Provider describes how to reach an article on one publisher platform.
type Provider struct {
	Key        string
	Name       string
	Method     string
	WebsiteURL string // with trailing slash
	IconURL    string // defaults to WebsiteURL + "favicon.ico"

	// URLTemplate contains $JOURNAL, $VOLUME and $PAGE placeholders.
	// Ignored when Build is set.
	URLTemplate string
	Build       BuildFunc

	// DOITemplate is empty when the provider cannot infer DOIs offline.
	DOITemplate string

	// DOIRedirect extracts the DOI, as its first submatch, from a location
	// the quick-link URL redirects to. Nil when redirects carry no DOI.
	DOIRedirect *regexp.Regexp
}

// Info is the display metadata sent along with every resolution.
type Info struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	Website   string `json:"website,omitempty"`
	Method    string `json:"method"`
	DOI       bool   `json:"doi"`
	DOILookup bool   `json:"doi_lookup"` // DOI found by following redirects
}

// Info returns the provider's display metadata.
func (p *Provider) Info() Info {
	return Info{
		Key:       p.Key,
		Name:      p.Name,
		Icon:      p.Icon(),
		Website:   p.WebsiteURL,
		Method:    p.Method,
		DOI:       p.SupportsDOI(),
		DOILookup: p.SupportsDOILookup(),
	}
}

// Icon returns the icon URL, falling back to the website favicon.
func (p *Provider) Icon() string {
	if p.IconURL != "" {
		return p.IconURL
	}
	if p.WebsiteURL == "" {
		return ""
	}
	return p.WebsiteURL + "favicon.ico"
}

// SupportsDOI reports whether DOI builds are available for this provider.
func (p *Provider) SupportsDOI() bool {
	return p.DOITemplate != ""
}

// SupportsDOILookup reports whether the DOI can be found by following the
// redirects of the quick-link URL.
func (p *Provider) SupportsDOILookup() bool {
	return p.DOIRedirect != nil
}

// DOIFromLocation extracts a DOI from a redirect location.
func (p *Provider) DOIFromLocation(location string) (string, bool) {
	if p.DOIRedirect == nil {
		return "", false
	}
	m := p.DOIRedirect.FindStringSubmatch(location)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	doi, err := url.PathUnescape(m[1])
	if err != nil {
		return m[1], true
	}
	return doi, true
}

// URL builds the quick-link URL for an article.
func (p *Provider) URL(journal, volume, page string) string {
	if p.Build != nil {
		return p.Build(journal, volume, page)
	}
	return Expand(p.URLTemplate, journal, volume, page)
}

// DOI builds the DOI of an article.
func (p *Provider) DOI(journal, volume, page string) (string, error) {
	if !p.SupportsDOI() {
		return "", fmt.Errorf("%s: %w", p.Name, ErrNoDOI)
	}
	r := strings.NewReplacer(
		PlaceholderJournal, journal,
		PlaceholderVolume, volume,
		PlaceholderPage, page,
	)
	return r.Replace(p.DOITemplate), nil
}

// Expand substitutes the placeholders of a URL template.
// Values after the '?' are query-escaped, all others are path-escaped.
func Expand(template, journal, volume, page string) string {
	values := map[string]string{
		PlaceholderJournal: journal,
		PlaceholderVolume:  volume,
		PlaceholderPage:    page,
	}

	var sb strings.Builder
	inQuery := false
	for i := 0; i < len(template); {
		switch template[i] {
		case '?':
			inQuery = true
		case '#':
			inQuery = false
		case '$':
			if ph, ok := matchPlaceholder(template[i:]); ok {
				if inQuery {
					sb.WriteString(url.QueryEscape(values[ph]))
				} else {
					sb.WriteString(url.PathEscape(values[ph]))
				}
				i += len(ph)
				continue
			}
		}
		sb.WriteByte(template[i])
		i++
	}
	return sb.String()
}

func matchPlaceholder(s string) (string, bool) {
	for _, ph := range []string{PlaceholderJournal, PlaceholderVolume, PlaceholderPage} {
		if strings.HasPrefix(s, ph) {
			return ph, true
		}
	}
	return "", false
}

// Registry is an immutable set of providers indexed by key.
type Registry struct {
	byKey map[string]*Provider
	keys  []string
}

// NewRegistry builds a registry from copies of providers. Keys must be
// unique and non-empty.
func NewRegistry(providers ...*Provider) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*Provider, len(providers))}
	for _, p := range providers {
		if p.Key == "" {
			return nil, fmt.Errorf("provider %q has an empty key", p.Name)
		}
		if _, ok := r.byKey[p.Key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, p.Key)
		}
		cp := *p
		if cp.Method == "" {
			cp.Method = MethodGet
		}
		r.byKey[cp.Key] = &cp
		r.keys = append(r.keys, cp.Key)
	}
	sort.Strings(r.keys)
	return r, nil
}

// Lookup returns the provider registered under key.
func (r *Registry) Lookup(key string) (*Provider, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Keys returns the registered keys in alphabetical order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All returns the providers in key order.
func (r *Registry) All() []*Provider {
	out := make([]*Provider, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	return len(r.keys)
}
