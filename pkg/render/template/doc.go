// Package template defines the template engine contract used by the HTML
// front-end. The gotemplate subpackage implements it on pongo2.
package template
