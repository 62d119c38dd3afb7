package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routedoc/mux"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.1.0"

// Spec collects document-level OpenAPI metadata and builds complete
// documents from a router. A Spec is safe for concurrent use; setters may
// run while documents are being served.
type Spec struct {
	mu sync.RWMutex

	info            Info
	servers         []Server
	tags            []Tag
	security        []SecurityRequirement
	securitySchemes map[string]*SecurityScheme
	externalDocs    *ExternalDocs

	registry *Registry
	encoder  Encoder
	logger   *slog.Logger
	include  []string
	exclude  []string
}

// NewSpec creates a new spec builder with the given API info and the
// default JSON encoder.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:    info,
		encoder: JSONEncoder(),
	}
}

// Info returns the current API info.
func (s *Spec) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// SetInfo replaces the API info.
func (s *Spec) SetInfo(info Info) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
	return s
}

// AddServer adds a server to the spec.
func (s *Spec) AddServer(server Server) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers = append(s.servers, server)
	return s
}

// SetServers replaces every server.
func (s *Spec) SetServers(servers ...Server) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers = slices.Clone(servers)
	return s
}

// AddTag adds a user-defined tag with optional description and external docs.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, tag)
	return s
}

// SetTags replaces every user-defined tag.
func (s *Spec) SetTags(tags ...Tag) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = slices.Clone(tags)
	return s
}

// SetSecurity sets the document-level security requirements.
func (s *Spec) SetSecurity(reqs ...SecurityRequirement) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.security = reqs
	return s
}

// AddSecurityScheme registers a reusable security scheme in components.
func (s *Spec) AddSecurityScheme(name string, scheme *SecurityScheme) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.securitySchemes == nil {
		s.securitySchemes = make(map[string]*SecurityScheme)
	}
	s.securitySchemes[name] = scheme
	return s
}

// SetExternalDocs sets the document-level external documentation link.
func (s *Spec) SetExternalDocs(url, description string) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalDocs = &ExternalDocs{URL: url, Description: description}
	return s
}

// SetRegistry sets the capability registry used for every type.
func (s *Spec) SetRegistry(reg *Registry) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = reg
	return s
}

// SetEncoder sets the encoder used to render examples. Setting nil makes
// Build fail with ErrMissingEncoder.
func (s *Spec) SetEncoder(enc Encoder) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encoder = enc
	return s
}

// SetLogger sets the logger for generation diagnostics.
func (s *Spec) SetLogger(logger *slog.Logger) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
	return s
}

// Include keeps only paths matching at least one of the doublestar patterns.
func (s *Spec) Include(patterns ...string) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.include = append(s.include, patterns...)
	return s
}

// Exclude drops paths matching any of the doublestar patterns.
func (s *Spec) Exclude(patterns ...string) *Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exclude = append(s.exclude, patterns...)
	return s
}

// Generator returns a generator configured from the spec. The result is a
// snapshot; later setters do not affect it.
func (s *Spec) Generator() *Generator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Generator{
		Registry: s.registry,
		Encoder:  s.encoder,
		Logger:   s.logger,
		Include:  slices.Clone(s.include),
		Exclude:  slices.Clone(s.exclude),
	}
}

// Build walks the router and assembles a complete OpenAPI document. Any
// route that cannot be documented fails the build; no partial document is
// returned.
func (s *Spec) Build(ctx context.Context, router *mux.Router) (*Document, error) {
	paths, err := s.Generator().PathItems(ctx, router)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := &Document{
		OpenAPI:      Version,
		Info:         s.info,
		Servers:      slices.Clone(s.servers),
		Paths:        paths,
		Security:     slices.Clone(s.security),
		ExternalDocs: s.externalDocs,
		Tags:         s.mergeTags(paths),
	}

	if len(s.securitySchemes) > 0 {
		schemes := make(map[string]*SecurityScheme, len(s.securitySchemes))
		for name, scheme := range s.securitySchemes {
			schemes[name] = scheme
		}
		doc.Components = &Components{SecuritySchemes: schemes}
	}

	return doc, nil
}

// mergeTags combines tags collected from operations with user-defined tags.
// User-defined tags take precedence (their description and externalDocs are
// kept) and are included even when no operation uses them. The result is
// sorted by name.
func (s *Spec) mergeTags(paths *Paths) []Tag {
	userTags := make(map[string]Tag, len(s.tags))
	for _, tag := range s.tags {
		userTags[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag

	for _, item := range paths.All() {
		for _, op := range item.Operations() {
			for _, name := range op.Tags {
				if seen[name] {
					continue
				}
				seen[name] = true
				if userTag, ok := userTags[name]; ok {
					tags = append(tags, userTag)
				} else {
					tags = append(tags, Tag{Name: name})
				}
			}
		}
	}

	for _, tag := range s.tags {
		if !seen[tag.Name] {
			seen[tag.Name] = true
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags
}

// JSON returns the indented JSON form of the document. Object keys are
// sorted at every level, so equal documents produce equal bytes.
func (d *Document) JSON() ([]byte, error) {
	generic, err := d.generic(true)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(generic, "", "  ")
}

// YAML returns the YAML form of the document. The document goes through
// its JSON form first so field names and omission rules are identical.
func (d *Document) YAML() ([]byte, error) {
	generic, err := d.generic(false)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(generic)
}

// generic decodes the JSON form of the document into maps, which both
// encoders write with sorted keys. With useNumber, numbers keep their
// literal form; yaml.v3 would quote json.Number values.
func (d *Document) generic(useNumber bool) (any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if useNumber {
		dec.UseNumber()
	}

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	return generic, nil
}
