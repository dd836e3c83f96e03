// Package export turns a disease description into a word-processing
// document model.
//
// The description markup is line based: every line becomes one justified
// paragraph, and **text** spans become bold runs. All runs are written
// right-to-left. The model is serialised by internal/platform/docx.
package export
