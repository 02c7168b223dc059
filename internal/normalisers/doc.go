// Package normalisers holds the text extractors that turn downloaded
// documents into plain, normalised text. Each subpackage handles one
// document format; order documents are PDFs, so pdf is the only one.
package normalisers
