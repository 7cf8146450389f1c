package provider

import (
	"net/url"
	"regexp"
	"strings"
)

// Built-in provider keys. Please keep this list alphabetic.
const (
	KeyACS      = "acs"
	KeyAIP      = "aip"
	KeyAPS      = "aps"
	KeyIOP      = "iop"
	KeyNature   = "nature"
	KeyRSC      = "rsc"
	KeySD       = "sd"
	KeySpringer = "sl"
	KeyWiley    = "wiley"
)

const quickLinkQuery = "?quickLinkJournal=$JOURNAL&quickLinkVolume=$VOLUME&quickLinkPage=$PAGE&quickLink=true"

// Redirect locations that carry a DOI.
var (
	// Atypon platforms (ACS, Wiley) redirect quick links to /doi/abs/<doi>.
	atyponDOIRedirect = regexp.MustCompile(`/doi/(?:abs/|full/)?(10\.[0-9]{4,9}/[^?#]+)`)

	// IOPscience redirects findcontent to /article/<doi>.
	iopDOIRedirect = regexp.MustCompile(`/article/(10\.[0-9]{4,9}/[^?#]+?)(?:/meta)?(?:[?#]|$)`)
)

// apsSections maps the DOI journal code of an APS journal to its URL section.
var apsSections = map[string]string{
	"PhysRev":        "pr",
	"PhysRevA":       "pra",
	"PhysRevB":       "prb",
	"PhysRevC":       "prc",
	"PhysRevD":       "prd",
	"PhysRevE":       "pre",
	"PhysRevLett":    "prl",
	"PhysRevX":       "prx",
	"PhysRevApplied": "prapplied",
	"RevModPhys":     "rmp",
}

// apsURL builds the abstract page of an APS article, which is derived from its DOI.
func apsURL(journal, volume, page string) string {
	section, ok := apsSections[journal]
	if !ok {
		section = strings.ToLower(journal)
	}
	return "https://journals.aps.org/" + url.PathEscape(section) +
		Expand("/abstract/10.1103/$JOURNAL.$VOLUME.$PAGE", journal, volume, page)
}

// Builtin returns fresh copies of the built-in providers.
func Builtin() []*Provider {
	return []*Provider{
		{
			Key:         KeyACS,
			Name:        "American Chemical Society",
			WebsiteURL:  "https://pubs.acs.org/",
			URLTemplate: "https://pubs.acs.org/action/quickLink" + quickLinkQuery,
			DOIRedirect: atyponDOIRedirect,
		},
		{
			Key:         KeyAIP,
			Name:        "American Institute of Physics",
			WebsiteURL:  "https://aip.scitation.org/",
			URLTemplate: "https://aip.scitation.org/action/quickLink" + quickLinkQuery,
		},
		{
			Key:         KeyAPS,
			Name:        "American Physical Society",
			WebsiteURL:  "https://journals.aps.org/",
			IconURL:     "https://cdn.journals.aps.org/development/journals/images/favicon.ico",
			Build:       apsURL,
			DOITemplate: "10.1103/$JOURNAL.$VOLUME.$PAGE",
		},
		{
			Key:         KeyIOP,
			Name:        "Institute of Physics",
			WebsiteURL:  "https://iopscience.iop.org/",
			URLTemplate: "https://iopscience.iop.org/findcontent?CF_JOURNAL=$JOURNAL&CF_VOLUME=$VOLUME&CF_ISSUE=&CF_PAGE=$PAGE",
			DOIRedirect: iopDOIRedirect,
		},
		{
			Key:         KeyNature,
			Name:        "Nature",
			WebsiteURL:  "https://www.nature.com/",
			URLTemplate: "https://www.nature.com/search?journal=$JOURNAL&volume=$VOLUME&spage=$PAGE&order=relevance",
		},
		{
			Key:         KeyRSC,
			Name:        "Royal Society of Chemistry",
			WebsiteURL:  "https://pubs.rsc.org/",
			URLTemplate: "https://pubs.rsc.org/en/results?artrefjournalname=$JOURNAL&artrefvolumeyear=$VOLUME&artrefstartpage=$PAGE&fcategory=journal",
		},
		{
			Key:         KeySD,
			Name:        "ScienceDirect (Elsevier)",
			WebsiteURL:  "https://www.sciencedirect.com/",
			IconURL:     "https://sdfestaticassets-eu-west-1.sciencedirectassets.com/shared-assets/18/images/favSD.ico",
			URLTemplate: "https://www.sciencedirect.com/search/advanced?cid=$JOURNAL&volume=$VOLUME&page=$PAGE",
		},
		{
			// Springer mixes page and article numbers, so the best we can do is the volume TOC.
			Key:         KeySpringer,
			Name:        "SpringerLink (Springer)",
			WebsiteURL:  "https://link.springer.com/",
			IconURL:     "https://link.springer.com/static/17c1f2edc5a95a03d2f5f7b0019142685841f5ad/sites/link/images/favicon-32x32.png",
			URLTemplate: "https://link.springer.com/journal/$JOURNAL/volume/$VOLUME/toc",
		},
		{
			Key:         KeyWiley,
			Name:        "Wiley",
			WebsiteURL:  "https://onlinelibrary.wiley.com/",
			URLTemplate: "https://onlinelibrary.wiley.com/action/quickLink" + quickLinkQuery,
			DOIRedirect: atyponDOIRedirect,
		},
	}
}

// Default returns a registry holding the built-in providers.
func Default() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		// Built-in keys are constants; a failure here is a programming error.
		panic(err)
	}
	return r
}
