package web

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "comboform"

// DefaultManifest returns the built-in theme with a light base and a dark
// variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":  "#5a56e0",
			"surface": "#ffffff",
			"text":    "#1f2330",
			"muted":   "#6b7080",
			"border":  "#d6d8e0",
			"danger":  "#d7263d",
			"radius":  "6px",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"accent":  "#7d79f6",
					"surface": "#16181f",
					"text":    "#e8e9ee",
					"muted":   "#9699a6",
					"border":  "#2e313c",
					"danger":  "#ff5f6d",
				},
			},
		},
	}
}

type manifestSelector struct {
	mu          sync.RWMutex
	manifests   map[string]*theme.Manifest
	defaultName string
}

// NewThemeSelector resolves selections against manifests. The first manifest
// is the default when no name is requested.
func NewThemeSelector(manifests ...*theme.Manifest) theme.ThemeSelector {
	sel := &manifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil || m.Name == "" {
			continue
		}
		if sel.defaultName == "" {
			sel.defaultName = m.Name
		}
		sel.manifests[m.Name] = m
	}
	return sel
}

func (s *manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(name) == "" {
		name = s.defaultName
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("web: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("web: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens override base tokens
// and every token becomes a --name CSS variable.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(sel.Manifest.Tokens))
	for key, value := range sel.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := sel.Manifest.Variants[sel.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return &theme.RendererConfig{
		Theme:   sel.Theme,
		Variant: sel.Variant,
		Tokens:  tokens,
		CSSVars: vars,
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(cssValue(vars[key]))
		b.WriteString(";")
	}
	b.WriteString("}")
	return b.String()
}

func cssValue(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\':
			return -1
		}
		return r
	}, raw)
}
