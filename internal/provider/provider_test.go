package provider

import (
	"errors"
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		journal  string
		volume   string
		page     string
		want     string
	}{
		{
			name:     "query values",
			template: "https://example.org/search?j=$JOURNAL&v=$VOLUME&p=$PAGE",
			journal:  "Nature",
			volume:   "12",
			page:     "345",
			want:     "https://example.org/search?j=Nature&v=12&p=345",
		},
		{
			name:     "query values are escaped",
			template: "https://example.org/search?j=$JOURNAL",
			journal:  "phys. chem. chem. phys.",
			want:     "https://example.org/search?j=phys.+chem.+chem.+phys.",
		},
		{
			name:     "ampersand cannot inject a parameter",
			template: "https://example.org/search?j=$JOURNAL&v=$VOLUME",
			journal:  "A&v=99",
			volume:   "1",
			want:     "https://example.org/search?j=A%26v%3D99&v=1",
		},
		{
			name:     "path values are path-escaped",
			template: "https://example.org/journal/$JOURNAL/volume/$VOLUME/toc",
			journal:  "a/b c",
			volume:   "7",
			want:     "https://example.org/journal/a%2Fb%20c/volume/7/toc",
		},
		{
			name:     "fragment leaves query mode",
			template: "https://example.org/?x=1#volume$VOLUME",
			volume:   "3",
			want:     "https://example.org/?x=1#volume3",
		},
		{
			name:     "unknown dollar sequences are kept",
			template: "https://example.org/$FOO/$PAGE",
			page:     "9",
			want:     "https://example.org/$FOO/9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.template, tt.journal, tt.volume, tt.page)
			if got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProvider_Icon(t *testing.T) {
	p := &Provider{WebsiteURL: "https://pubs.acs.org/"}
	if got := p.Icon(); got != "https://pubs.acs.org/favicon.ico" {
		t.Errorf("Icon() = %q, want favicon fallback", got)
	}

	p.IconURL = "https://cdn.example.org/icon.png"
	if got := p.Icon(); got != p.IconURL {
		t.Errorf("Icon() = %q, want %q", got, p.IconURL)
	}

	if got := (&Provider{}).Icon(); got != "" {
		t.Errorf("Icon() without website = %q, want empty", got)
	}
}

func TestProvider_URLPrefersBuild(t *testing.T) {
	p := &Provider{
		URLTemplate: "https://ignored/$JOURNAL",
		Build: func(journal, volume, page string) string {
			return journal + "|" + volume + "|" + page
		},
	}
	if got := p.URL("j", "1", "2"); got != "j|1|2" {
		t.Errorf("URL() = %q, want j|1|2", got)
	}
}

func TestProvider_DOI(t *testing.T) {
	p := &Provider{Name: "APS", DOITemplate: "10.1103/$JOURNAL.$VOLUME.$PAGE"}
	doi, err := p.DOI("PhysRevLett", "98", "010401")
	if err != nil {
		t.Fatalf("DOI() error = %v", err)
	}
	if doi != "10.1103/PhysRevLett.98.010401" {
		t.Errorf("DOI() = %q", doi)
	}

	_, err = (&Provider{Name: "Nature"}).DOI("nature", "1", "2")
	if !errors.Is(err, ErrNoDOI) {
		t.Errorf("DOI() without template error = %v, want ErrNoDOI", err)
	}
}

func TestNewRegistry_DuplicateKey(t *testing.T) {
	_, err := NewRegistry(&Provider{Key: "a"}, &Provider{Key: "a"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("NewRegistry() error = %v, want ErrDuplicateKey", err)
	}
}

func TestNewRegistry_EmptyKey(t *testing.T) {
	if _, err := NewRegistry(&Provider{Name: "nameless"}); err == nil {
		t.Fatal("NewRegistry() with empty key should fail")
	}
}

func TestNewRegistry_DefaultsMethod(t *testing.T) {
	r, err := NewRegistry(&Provider{Key: "x"})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	p, _ := r.Lookup("x")
	if p.Method != MethodGet {
		t.Errorf("Method = %q, want %q", p.Method, MethodGet)
	}
}

func TestNewRegistry_CopiesProviders(t *testing.T) {
	p := &Provider{Key: "x", Name: "X"}
	r, err := NewRegistry(p)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if p.Method != "" {
		t.Errorf("caller's Method = %q, want it left empty", p.Method)
	}

	p.Name = "changed"
	got, _ := r.Lookup("x")
	if got.Name != "X" {
		t.Errorf("registered Name = %q after caller changed it, want X", got.Name)
	}
}

func TestDefault(t *testing.T) {
	r := Default()

	want := []string{KeyACS, KeyAIP, KeyAPS, KeyIOP, KeyNature, KeyRSC, KeySD, KeySpringer, KeyWiley}
	if r.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", r.Len(), len(want))
	}
	for _, k := range want {
		p, ok := r.Lookup(k)
		if !ok {
			t.Errorf("missing provider %q", k)
			continue
		}
		if p.Name == "" || p.WebsiteURL == "" {
			t.Errorf("provider %q has incomplete metadata", k)
		}
		if !strings.HasSuffix(p.WebsiteURL, "/") {
			t.Errorf("provider %q website %q lacks trailing slash", k, p.WebsiteURL)
		}
		if p.URLTemplate == "" && p.Build == nil {
			t.Errorf("provider %q cannot build URLs", k)
		}
		if p.Method != MethodGet {
			t.Errorf("provider %q method = %q", k, p.Method)
		}
	}

	keys := r.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted: %v", keys)
		}
	}
}

func TestDefault_NatureTemplate(t *testing.T) {
	p, _ := Default().Lookup(KeyNature)
	got := p.URL("Nature", "12", "345")
	if !strings.Contains(got, "journal=Nature&volume=12&spage=345") {
		t.Errorf("URL() = %q", got)
	}
}

func TestDefault_APS(t *testing.T) {
	p, _ := Default().Lookup(KeyAPS)

	if got := p.URL("PhysRevLett", "98", "010401"); got != "https://journals.aps.org/prl/abstract/10.1103/PhysRevLett.98.010401" {
		t.Errorf("URL() = %q", got)
	}
	if got := p.URL("PhysRevFluids", "1", "2"); !strings.HasPrefix(got, "https://journals.aps.org/physrevfluids/") {
		t.Errorf("URL() for unmapped journal = %q", got)
	}
	if !p.SupportsDOI() {
		t.Error("APS should support DOI")
	}
}

func TestDefault_APSEscapesIdentifier(t *testing.T) {
	p, _ := Default().Lookup(KeyAPS)

	got := p.URL("Phys Rev?x", "1", "2")
	want := "https://journals.aps.org/phys%20rev%3Fx/abstract/10.1103/Phys%20Rev%3Fx.1.2"
	if got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestDefault_DOIRedirects(t *testing.T) {
	r := Default()

	tests := []struct {
		key      string
		location string
		want     string
		wantOK   bool
	}{
		{KeyACS, "https://pubs.acs.org/doi/abs/10.1021/jacs.6b00001?src=quicklink", "10.1021/jacs.6b00001", true},
		{KeyWiley, "https://onlinelibrary.wiley.com/doi/10.1002/anie.201600001", "10.1002/anie.201600001", true},
		{KeyWiley, "https://onlinelibrary.wiley.com/doi/full/10.1002/anie.201600001#abstract", "10.1002/anie.201600001", true},
		{KeyIOP, "https://iopscience.iop.org/article/10.1088/1751-8113/40/1/001/meta", "10.1088/1751-8113/40/1/001", true},
		{KeyIOP, "https://iopscience.iop.org/article/10.1088/1751-8113/40/1/001?fromSearchPage=true", "10.1088/1751-8113/40/1/001", true},
		{KeyACS, "https://pubs.acs.org/action/cookieAbsent", "", false},
		{KeyNature, "https://www.nature.com/articles/nature12345", "", false},
	}

	for _, tt := range tests {
		p, _ := r.Lookup(tt.key)
		got, ok := p.DOIFromLocation(tt.location)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s DOIFromLocation(%q) = %q, %v, want %q, %v", tt.key, tt.location, got, ok, tt.want, tt.wantOK)
		}
	}

	for _, key := range []string{KeyACS, KeyIOP, KeyWiley} {
		p, _ := r.Lookup(key)
		if !p.Info().DOILookup {
			t.Errorf("provider %q should support DOI lookup", key)
		}
	}
}
