// Package textutil derives display titles and safe filenames from HTML
// documents. Titles come from the first <title> element; when a document has
// none, callers fall back to a generic label.
package textutil
